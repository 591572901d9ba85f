package tcs34725

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockColorSensor_StaticSample(t *testing.T) {
	sensor := NewMockColorSensor(func(ctx context.Context) (RawSample, error) {
		return RawSample{R: 120, G: 130, B: 90, C: 400}, nil
	})
	ctx := context.Background()

	sample, err := sensor.GetRawChannels(ctx)
	assert.NoError(t, err)
	assert.Equal(t, RawSample{R: 120, G: 130, B: 90, C: 400}, sample)

	lux, err := sensor.GetLux(ctx)
	assert.NoError(t, err)
	assert.Equal(t, Lux(120, 130, 90), lux)

	cct, err := sensor.GetColorTemperature(ctx)
	assert.NoError(t, err)
	assert.Equal(t, uint16(4378), cct)
}

func TestMockColorSensor_DynamicBehavior(t *testing.T) {
	counter := uint16(0)
	sensor := NewMockColorSensor(func(ctx context.Context) (RawSample, error) {
		counter++
		return RawSample{R: counter, G: counter, B: counter, C: counter}, nil
	})
	ctx := context.Background()

	first, err := sensor.GetRawChannels(ctx)
	assert.NoError(t, err)
	second, err := sensor.GetRawChannelsOneShot(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first.R+1, second.R)
}

func TestMockColorSensor_ErrorPropagation(t *testing.T) {
	sensor := NewMockColorSensor(func(ctx context.Context) (RawSample, error) {
		return RawSample{}, fmt.Errorf("sensor malfunction")
	})
	ctx := context.Background()

	_, err := sensor.GetRawChannels(ctx)
	assert.EqualError(t, err, "sensor malfunction")
	_, err = sensor.GetLux(ctx)
	assert.EqualError(t, err, "sensor malfunction")
	_, err = sensor.GetColorTemperatureDN40(ctx)
	assert.EqualError(t, err, "sensor malfunction")
}

func TestMockColorSensor_DN40UsesConfiguredTiming(t *testing.T) {
	sensor := NewMockColorSensor(func(ctx context.Context) (RawSample, error) {
		// saturates the 2.4ms window (sat = 768) but not the 700ms one
		return RawSample{R: 250, G: 300, B: 200, C: 1000}, nil
	})
	ctx := context.Background()

	cct, err := sensor.GetColorTemperatureDN40(ctx)
	assert.NoError(t, err)
	assert.Zero(t, cct)

	assert.NoError(t, sensor.SetIntegrationTime(ctx, IntegrationTime700ms))
	cct, err = sensor.GetColorTemperatureDN40(ctx)
	assert.NoError(t, err)
	assert.NotZero(t, cct)
}
