package tcs34725

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalibration_Apply(t *testing.T) {
	cal := CalibrationConstants{
		RedSensitivity:   92.0,
		GreenSensitivity: 100.0,
		BlueSensitivity:  96.0,
		RedReference:     0.30,
		GreenReference:   0.35,
		BlueReference:    0.25,
	}
	raw := RawSample{R: 920, G: 1000, B: 960, C: 3000}

	out := cal.apply(raw, IntegrationTime24ms, Gain4x)

	// factor = (24 / 2.4) * 4 = 40
	assert.InDelta(t, 920.0/92.0*0.30*40, out.R, 1e-9)
	assert.InDelta(t, 1000.0/100.0*0.35*40, out.G, 1e-9)
	assert.InDelta(t, 960.0/96.0*0.25*40, out.B, 1e-9)
}

func TestCalibration_ClearIsSumOfComponents(t *testing.T) {
	samples := []RawSample{
		{R: 1, G: 2, B: 3, C: 100},
		{R: 500, G: 600, B: 700, C: 0},
		{R: 65535, G: 65535, B: 65535, C: 65535},
	}
	for _, raw := range samples {
		out := DefaultCalibration.apply(raw, IntegrationTime50ms, Gain16x)
		// the raw clear count never participates: the calibrated clear
		// output is defined as the component sum
		assert.Equal(t, out.R+out.G+out.B, out.C)
	}
}

func TestCalibration_Gain60xUses40xMultiplier(t *testing.T) {
	raw := RawSample{R: 92, G: 100, B: 96}

	out := DefaultCalibration.apply(raw, IntegrationTime2_4ms, Gain60x)

	// The 60x analog gain maps to a 40x multiplier in this pipeline. That
	// does not match the analog amplification but calibration data in the
	// field was produced against it, so it stays.
	assert.InDelta(t, 1.0*0.30*40, out.R, 1e-9)
	assert.InDelta(t, 1.0*0.35*40, out.G, 1e-9)
	assert.InDelta(t, 1.0*0.25*40, out.B, 1e-9)
}
