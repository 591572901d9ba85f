package tcs34725

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockI2CBus is a mock implementation of I2CBus using testify/mock
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if args.Get(0) != nil {
		if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
			copy(buffer, data)
		}
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func expectWrite(bus *MockI2CBus, data ...byte) *mock.Call {
	return bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), data).
		Return(nil).Once()
}

func expectRead(bus *MockI2CBus, data ...byte) *mock.Call {
	return bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return(data, nil).Once()
}

func TestInit_DeviceID(t *testing.T) {
	tests := []struct {
		name  string
		id    byte
		found bool
	}{
		{name: "revision 0x44", id: 0x44, found: true},
		{name: "revision 0x10", id: 0x10, found: true},
		{name: "unknown revision", id: 0x33, found: false},
		{name: "bus floating low", id: 0x00, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			sensor := New(bus)
			ctx := context.Background()

			expectWrite(bus, 0x92)
			expectRead(bus, tt.id)
			if tt.found {
				// config registers and the power-on sequence follow
				expectWrite(bus, 0x81, 0xFF)
				expectWrite(bus, 0x8F, 0x00)
				expectWrite(bus, 0x80, 0x01)
				expectWrite(bus, 0x80, 0x03)
			}

			err := sensor.Init(ctx)
			if tt.found {
				assert.NoError(t, err)
				assert.True(t, sensor.ready)
			} else {
				assert.ErrorIs(t, err, ErrDeviceNotFound)
				assert.False(t, sensor.ready)
			}
			bus.AssertExpectations(t)
		})
	}
}

func TestInit_BusError(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus)

	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{0x92}).
		Return(errors.New("i2c write failed")).Once()

	err := sensor.Init(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tcs34725: could not read device ID: i2c write failed")
	assert.False(t, sensor.ready)
	bus.AssertExpectations(t)
}

func TestReadRegister16_ByteOrder(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus)
	ctx := context.Background()

	// low byte arrives first on the wire
	expectWrite(bus, 0x94)
	expectRead(bus, 0x34, 0x12)

	val, err := sensor.readRegister16(ctx, regCDataL)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), val)
	bus.AssertExpectations(t)
}

func TestIntegrationTime_Wait(t *testing.T) {
	tests := []struct {
		it       IntegrationTime
		expected time.Duration
	}{
		{IntegrationTime2_4ms, 3 * time.Millisecond},
		{IntegrationTime24ms, 24 * time.Millisecond},
		{IntegrationTime50ms, 50 * time.Millisecond},
		{IntegrationTime101ms, 101 * time.Millisecond},
		{IntegrationTime154ms, 154 * time.Millisecond},
		{IntegrationTime700ms, 700 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.it.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.it.wait())
		})
	}
}

func TestSetGain_RoundTrip(t *testing.T) {
	for _, gain := range []Gain{Gain1x, Gain4x, Gain16x, Gain60x} {
		t.Run(gain.String(), func(t *testing.T) {
			bus := new(MockI2CBus)
			sensor := New(bus)
			sensor.ready = true

			expectWrite(bus, 0x8F, byte(gain))

			err := sensor.SetGain(context.Background(), gain)
			assert.NoError(t, err)
			assert.Equal(t, gain, sensor.GetGain())
			bus.AssertExpectations(t)
		})
	}
}

func TestSetIntegrationTime_RoundTrip(t *testing.T) {
	times := []IntegrationTime{
		IntegrationTime2_4ms, IntegrationTime24ms, IntegrationTime50ms,
		IntegrationTime101ms, IntegrationTime154ms, IntegrationTime700ms,
	}
	for _, it := range times {
		t.Run(it.String(), func(t *testing.T) {
			bus := new(MockI2CBus)
			sensor := New(bus)
			sensor.ready = true

			expectWrite(bus, 0x81, byte(it))

			err := sensor.SetIntegrationTime(context.Background(), it)
			assert.NoError(t, err)
			assert.Equal(t, it, sensor.GetIntegrationTime())
			bus.AssertExpectations(t)
		})
	}
}

func TestDisable_PreservesInterruptEnable(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus)
	sensor.ready = true
	ctx := context.Background()

	// ENABLE currently holds PON|AEN|AIEN; only PON and AEN may be cleared
	expectWrite(bus, 0x80)
	expectRead(bus, enablePON|enableAEN|enableAIEN)
	expectWrite(bus, 0x80, enableAIEN)

	err := sensor.Disable(ctx)
	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestSetInterrupt(t *testing.T) {
	tests := []struct {
		name     string
		on       bool
		current  byte
		expected byte
	}{
		{name: "enable", on: true, current: enablePON | enableAEN, expected: enablePON | enableAEN | enableAIEN},
		{name: "disable", on: false, current: enablePON | enableAEN | enableAIEN, expected: enablePON | enableAEN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			sensor := New(bus)
			sensor.ready = true

			expectWrite(bus, 0x80)
			expectRead(bus, tt.current)
			expectWrite(bus, 0x80, tt.expected)

			err := sensor.SetInterrupt(context.Background(), tt.on)
			assert.NoError(t, err)
			bus.AssertExpectations(t)
		})
	}
}

func TestClearInterrupt_NoDataByte(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus)
	sensor.ready = true

	expectWrite(bus, commandBit|cmdClearInterrupt)

	err := sensor.ClearInterrupt(context.Background())
	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestSetInterruptLimits(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus)
	sensor.ready = true

	expectWrite(bus, 0x84, 0x34)
	expectWrite(bus, 0x85, 0x12)
	expectWrite(bus, 0x86, 0x78)
	expectWrite(bus, 0x87, 0x56)

	err := sensor.SetInterruptLimits(context.Background(), 0x1234, 0x5678)
	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestGetRawChannelsOneShot(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus)
	sensor.ready = true
	ctx := context.Background()

	// wake up
	expectWrite(bus, 0x80, 0x01)
	expectWrite(bus, 0x80, 0x03)
	// channel reads, clear first
	expectWrite(bus, 0x94)
	expectRead(bus, 0x58, 0x02) // C = 600
	expectWrite(bus, 0x96)
	expectRead(bus, 0xFA, 0x00) // R = 250
	expectWrite(bus, 0x98)
	expectRead(bus, 0x2C, 0x01) // G = 300
	expectWrite(bus, 0x9A)
	expectRead(bus, 0xC8, 0x00) // B = 200
	// back to sleep
	expectWrite(bus, 0x80)
	expectRead(bus, enablePON|enableAEN)
	expectWrite(bus, 0x80, 0x00)

	sample, err := sensor.GetRawChannelsOneShot(ctx)
	assert.NoError(t, err)
	assert.Equal(t, RawSample{R: 250, G: 300, B: 200, C: 600}, sample)
	bus.AssertExpectations(t)
}

func TestGetRawChannels_LazyInit(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus)
	ctx := context.Background()

	// first access initializes the device
	expectWrite(bus, 0x92)
	expectRead(bus, 0x44)
	expectWrite(bus, 0x81, 0xFF)
	expectWrite(bus, 0x8F, 0x00)
	expectWrite(bus, 0x80, 0x01)
	expectWrite(bus, 0x80, 0x03)
	// then reads the channels
	expectWrite(bus, 0x94)
	expectRead(bus, 0x00, 0x00)
	expectWrite(bus, 0x96)
	expectRead(bus, 0x00, 0x00)
	expectWrite(bus, 0x98)
	expectRead(bus, 0x00, 0x00)
	expectWrite(bus, 0x9A)
	expectRead(bus, 0x00, 0x00)

	_, err := sensor.GetRawChannels(ctx)
	assert.NoError(t, err)
	assert.True(t, sensor.ready)
	bus.AssertExpectations(t)
}

func TestGetRawChannels_IntegrationWait(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus, WithIntegrationTime(IntegrationTime24ms))
	sensor.ready = true
	ctx := context.Background()

	for _, reg := range []byte{0x94, 0x96, 0x98, 0x9A} {
		expectWrite(bus, reg)
		expectRead(bus, 0x01, 0x00)
	}

	start := time.Now()
	_, err := sensor.GetRawChannels(ctx)
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 24*time.Millisecond-time.Millisecond,
		"read must block for the integration period")
	bus.AssertExpectations(t)
}

func TestGetRawChannels_ContextCancelled(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus, WithIntegrationTime(IntegrationTime700ms))
	sensor.ready = true

	for _, reg := range []byte{0x94, 0x96, 0x98, 0x9A} {
		expectWrite(bus, reg)
		expectRead(bus, 0x01, 0x00)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := sensor.GetRawChannels(ctx)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, elapsed, 700*time.Millisecond, "cancellation must interrupt the integration wait")
	bus.AssertExpectations(t)
}

func TestGetRGB_ZeroClearYieldsBlack(t *testing.T) {
	bus := new(MockI2CBus)
	sensor := New(bus)
	sensor.ready = true

	for _, reg := range []byte{0x94, 0x96, 0x98, 0x9A} {
		expectWrite(bus, reg)
		expectRead(bus, 0x00, 0x00)
	}

	r, g, b, err := sensor.GetRGB(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, r)
	assert.Zero(t, g)
	assert.Zero(t, b)
	bus.AssertExpectations(t)
}
