package tcs34725

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDevice_BindsAddress(t *testing.T) {
	bus := new(MockI2CBus)
	dev := Bind(bus, 0x51)
	ctx := context.Background()

	bus.On("WriteToAddr", mock.Anything, byte(0x51), []byte{0xAA, 0xBB}).
		Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(0x51), mock.Anything).
		Return([]byte{0x01, 0x02}, nil).Once()

	err := dev.Write(ctx, []byte{0xAA, 0xBB})
	assert.NoError(t, err)

	buf := make([]byte, 2)
	err = dev.Read(ctx, buf)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, buf)
	bus.AssertExpectations(t)
}

func TestDevice_PropagatesBusErrors(t *testing.T) {
	bus := new(MockI2CBus)
	dev := Bind(bus, DefaultAddress)
	ctx := context.Background()

	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return(ErrBusBusy).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return(nil, errors.New("nack")).Once()

	assert.ErrorIs(t, dev.Write(ctx, []byte{0x00}), ErrBusBusy)
	assert.EqualError(t, dev.Read(ctx, make([]byte, 1)), "nack")
	bus.AssertExpectations(t)
}
