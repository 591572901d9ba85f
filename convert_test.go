package tcs34725

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorTemperature(t *testing.T) {
	tests := []struct {
		r, g, b  uint16
		expected uint16
	}{
		// regression values computed from the fixed correlation matrix
		{100, 100, 100, 8890},
		{120, 130, 90, 4378},
		// all-zero sample short-circuits before the degenerate division
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d_%d", tt.r, tt.g, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorTemperature(tt.r, tt.g, tt.b))
		})
	}
}

func TestLux(t *testing.T) {
	tests := []struct {
		name     string
		r, g, b  uint16
		expected uint16
	}{
		{name: "neutral", r: 100, g: 100, b: 100, expected: 52},
		{name: "daylight", r: 260, g: 300, b: 180, expected: 257},
		// a red-dominated sample makes the weighted sum negative; the
		// result wraps instead of clamping at zero (current behavior,
		// documented, not a target for fixing here)
		{name: "negative illuminance wraps", r: 500, g: 10, b: 10, expected: 65383},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Lux(tt.r, tt.g, tt.b))
		})
	}
}

func TestColorTemperatureDN40(t *testing.T) {
	tests := []struct {
		name       string
		it         IntegrationTime
		gain       Gain
		r, g, b, c uint16
		expected   uint16
	}{
		{
			name: "zero clear channel is invalid",
			it:   IntegrationTime50ms, gain: Gain1x,
			r: 10, g: 10, b: 10, c: 0,
			expected: 0,
		},
		{
			// 50ms = 21 cycles, sat = 1024*21 minus the 25% ripple guard
			name: "saturated at threshold",
			it:   IntegrationTime50ms, gain: Gain1x,
			r: 250, g: 300, b: 200, c: 16128,
			expected: 0,
		},
		{
			name: "just below threshold",
			it:   IntegrationTime50ms, gain: Gain1x,
			r: 250, g: 300, b: 200, c: 16127,
			expected: 4439,
		},
		{
			name: "ir compensated sample",
			it:   IntegrationTime50ms, gain: Gain16x,
			r: 250, g: 300, b: 200, c: 600,
			expected: 4112,
		},
		{
			// 154ms = 64 cycles, first code in the digital saturation
			// regime: no 75% reduction, ceiling is 65535
			name: "digital saturation regime allows high counts",
			it:   IntegrationTime154ms, gain: Gain1x,
			r: 250, g: 300, b: 200, c: 60000,
			expected: 4439,
		},
		{
			// 101ms = 43 cycles is still analog: sat = 33024
			name: "analog saturation regime rejects the same count",
			it:   IntegrationTime101ms, gain: Gain1x,
			r: 250, g: 300, b: 200, c: 60000,
			expected: 0,
		},
		{
			name: "digital ceiling",
			it:   IntegrationTime700ms, gain: Gain1x,
			r: 250, g: 300, b: 200, c: 65535,
			expected: 0,
		},
		{
			name: "below digital ceiling",
			it:   IntegrationTime700ms, gain: Gain1x,
			r: 250, g: 300, b: 200, c: 65534,
			expected: 4439,
		},
		{
			// r+g+b = 50, c = 30: inferred ir = 10 exactly cancels red
			name: "zero red after ir subtraction is invalid",
			it:   IntegrationTime50ms, gain: Gain1x,
			r: 10, g: 30, b: 10, c: 30,
			expected: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorTemperatureDN40(tt.it, tt.gain, tt.r, tt.g, tt.b, tt.c))
		})
	}
}

func TestColorTemperatureDN40_SaturationBoundaries(t *testing.T) {
	// sat per integration time code, after the 75% ripple guard where the
	// analog regime applies
	tests := []struct {
		it  IntegrationTime
		sat uint16
	}{
		{IntegrationTime2_4ms, 768},
		{IntegrationTime24ms, 7680},
		{IntegrationTime50ms, 16128},
		{IntegrationTime101ms, 33024},
	}
	for _, tt := range tests {
		t.Run(tt.it.String(), func(t *testing.T) {
			assert.Zero(t, ColorTemperatureDN40(tt.it, Gain1x, 100, 120, 80, tt.sat))
			assert.NotZero(t, ColorTemperatureDN40(tt.it, Gain1x, 100, 120, 80, tt.sat-1))
		})
	}
}

func TestIntegrationTime_Multiplier(t *testing.T) {
	assert.Equal(t, 1.0, IntegrationTime2_4ms.multiplier())
	assert.Equal(t, 10.0, IntegrationTime24ms.multiplier())
	assert.InDelta(t, 291.666, IntegrationTime700ms.multiplier(), 0.001)
}
