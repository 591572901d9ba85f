package tcs34725

// CalibrationConstants compensates raw channel counts for the spectral
// responsivity of the sensor. Sensitivities are percentages relative to the
// green channel peak; references are the typical channel-to-clear ratios
// under a white reference light. Values are trusted as provided, no
// validation is performed.
type CalibrationConstants struct {
	RedSensitivity   float64 `yaml:"red_sensitivity"`
	GreenSensitivity float64 `yaml:"green_sensitivity"`
	BlueSensitivity  float64 `yaml:"blue_sensitivity"`
	RedReference     float64 `yaml:"red_reference"`
	GreenReference   float64 `yaml:"green_reference"`
	BlueReference    float64 `yaml:"blue_reference"`
}

// DefaultCalibration follows the typical responsivity curve from the
// datasheet.
var DefaultCalibration = CalibrationConstants{
	RedSensitivity:   92.0,
	GreenSensitivity: 100.0,
	BlueSensitivity:  96.0,
	RedReference:     0.30,
	GreenReference:   0.35,
	BlueReference:    0.25,
}

// CalibratedSample holds channel values in calibrated radiometric units.
type CalibratedSample struct {
	R float64
	G float64
	B float64
	C float64
}

func (cal CalibrationConstants) apply(raw RawSample, it IntegrationTime, gain Gain) CalibratedSample {
	factor := it.multiplier() * gain.calibrationMultiplier()
	out := CalibratedSample{
		R: float64(raw.R) / cal.RedSensitivity * cal.RedReference * factor,
		G: float64(raw.G) / cal.GreenSensitivity * cal.GreenReference * factor,
		B: float64(raw.B) / cal.BlueSensitivity * cal.BlueReference * factor,
	}
	// the clear output is defined as the sum of the calibrated components,
	// not an independent measurement
	out.C = out.R + out.G + out.B
	return out
}
