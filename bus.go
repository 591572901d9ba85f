package tcs34725

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type BusReader interface {
	Read(ctx context.Context, buffer []byte) error
}

type BusWriter interface {
	Write(ctx context.Context, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}

type I2CDevice interface {
	BusReader
	BusWriter
}

var _ I2CDevice = &Device{}

// Device binds a bus to a fixed slave address, exposing plain read/write
// transactions for callers that talk to a single chip and do not care about
// addressing.
type Device struct {
	bus  I2CBus
	addr byte
}

func Bind(bus I2CBus, address byte) *Device {
	return &Device{
		bus:  bus,
		addr: address,
	}
}

func (d *Device) Read(ctx context.Context, buffer []byte) error {
	return d.bus.ReadFromAddr(ctx, d.addr, buffer)
}

func (d *Device) Write(ctx context.Context, buffer []byte) error {
	return d.bus.WriteToAddr(ctx, d.addr, buffer)
}
