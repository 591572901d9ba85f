package tcs34725

import (
	"context"
)

// ColorBehaviorFunc defines the function signature for color sensor
// behavior. It returns one raw acquisition or an error.
type ColorBehaviorFunc func(ctx context.Context) (RawSample, error)

// MockColorSensor is a mock implementation of the color sensor acquisition
// surface that uses a behavior function to produce results without
// requiring any hardware.
type MockColorSensor struct {
	behavior ColorBehaviorFunc
	it       IntegrationTime
	gain     Gain
}

// NewMockColorSensor creates a new mock color sensor with the given behavior
// function. The behavior function is called whenever a read is invoked.
//
// Example usage:
//
//	// Static sample
//	sensor := NewMockColorSensor(func(ctx context.Context) (tcs34725.RawSample, error) {
//		return tcs34725.RawSample{R: 120, G: 130, B: 90, C: 400}, nil
//	})
//
//	// Error simulation
//	sensor := NewMockColorSensor(func(ctx context.Context) (tcs34725.RawSample, error) {
//		return tcs34725.RawSample{}, fmt.Errorf("sensor malfunction")
//	})
func NewMockColorSensor(behavior ColorBehaviorFunc) *MockColorSensor {
	return &MockColorSensor{
		behavior: behavior,
		it:       IntegrationTime2_4ms,
		gain:     Gain1x,
	}
}

// GetRawChannels returns a raw sample by calling the behavior function.
func (m *MockColorSensor) GetRawChannels(ctx context.Context) (RawSample, error) {
	return m.behavior(ctx)
}

// GetRawChannelsOneShot behaves like GetRawChannels; the mock has no power
// state to cycle.
func (m *MockColorSensor) GetRawChannelsOneShot(ctx context.Context) (RawSample, error) {
	return m.behavior(ctx)
}

// GetLux derives illuminance from the behavior sample.
func (m *MockColorSensor) GetLux(ctx context.Context) (uint16, error) {
	sample, err := m.behavior(ctx)
	if err != nil {
		return 0, err
	}
	return Lux(sample.R, sample.G, sample.B), nil
}

// GetColorTemperature derives the correlated color temperature from the
// behavior sample.
func (m *MockColorSensor) GetColorTemperature(ctx context.Context) (uint16, error) {
	sample, err := m.behavior(ctx)
	if err != nil {
		return 0, err
	}
	return ColorTemperature(sample.R, sample.G, sample.B), nil
}

// GetColorTemperatureDN40 derives the DN40 color temperature from the
// behavior sample using the mock's configured integration time and gain.
func (m *MockColorSensor) GetColorTemperatureDN40(ctx context.Context) (uint16, error) {
	sample, err := m.behavior(ctx)
	if err != nil {
		return 0, err
	}
	return ColorTemperatureDN40(m.it, m.gain, sample.R, sample.G, sample.B, sample.C), nil
}

// SetIntegrationTime records the integration time used by the DN40
// conversion; the mock performs no register I/O.
func (m *MockColorSensor) SetIntegrationTime(ctx context.Context, it IntegrationTime) error {
	m.it = it
	return nil
}

// SetGain records the gain used by the DN40 conversion.
func (m *MockColorSensor) SetGain(ctx context.Context, gain Gain) error {
	m.gain = gain
	return nil
}
