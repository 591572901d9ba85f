package i2c

import (
	"context"
	"fmt"

	"github.com/mklimuk/tcs34725"
	goboti2c "gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
)

var _ tcs34725.I2CBus = &NanoPiBus{}

// NanoPiBus drives an I2C bus through the gobot NanoPi NEO adaptor. Useful
// on boards where the bus is already managed by a gobot robot rather than
// periph.
type NanoPiBus struct {
	adaptor *nanopi.Adaptor
	bus     int
	drivers map[byte]*goboti2c.GenericDriver
}

func NewNanoPiBus(bus int) (*NanoPiBus, error) {
	adaptor := nanopi.NewNeoAdaptor()
	err := adaptor.I2cBusAdaptor.Connect()
	if err != nil {
		return nil, fmt.Errorf("could not connect nanopi i2c adaptor: %w", err)
	}
	return &NanoPiBus{
		adaptor: adaptor,
		bus:     bus,
		drivers: make(map[byte]*goboti2c.GenericDriver),
	}, nil
}

// driver returns a started generic gobot driver bound to the given device
// address, creating it on first use.
func (b *NanoPiBus) driver(address byte) (*goboti2c.GenericDriver, error) {
	if drv, ok := b.drivers[address]; ok {
		return drv, nil
	}
	drv := goboti2c.NewGenericDriver(b.adaptor, "i2c-device", int(address), func(c goboti2c.Config) {
		c.SetBus(b.bus)
	})
	err := drv.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start i2c driver for address %#x: %w", address, err)
	}
	b.drivers[address] = drv
	return drv, nil
}

func (b *NanoPiBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	drv, err := b.driver(address)
	if err != nil {
		return err
	}
	err = drv.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c address %#x: %w", address, err)
	}
	return nil
}

func (b *NanoPiBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	drv, err := b.driver(address)
	if err != nil {
		return err
	}
	err = drv.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c address %#x: %w", address, err)
	}
	return nil
}

func (b *NanoPiBus) Release(ctx context.Context) error {
	for addr, drv := range b.drivers {
		err := drv.Halt()
		if err != nil {
			return fmt.Errorf("could not halt i2c driver for address %#x: %w", addr, err)
		}
		delete(b.drivers, addr)
	}
	return nil
}

func (b *NanoPiBus) Close() error {
	err := b.Release(context.Background())
	if err != nil {
		return err
	}
	return b.adaptor.I2cBusAdaptor.Finalize()
}
