package tcs34725

// Conversion of raw channel counts to photometric quantities. All functions
// are pure; the DN40 variant additionally needs the integration time and
// gain the sample was acquired with.

// ColorTemperature converts raw R/G/B counts to correlated color
// temperature in degrees Kelvin.
//
// The channels are first mapped to an XYZ-like space with coefficients
// fitted against 6500K fluorescent, 3000K fluorescent and 60W incandescent
// sources, then McCamy's cubic approximation is applied to the chromaticity
// coordinates. The Y row doubles as illuminance.
//
// An all-zero sample returns 0. Other degenerate inputs (X+Y+Z == 0 or
// yc == 0.1858) divide by zero and produce an undefined result; callers
// must validate channel values first.
func ColorTemperature(r, g, b uint16) uint16 {
	if r == 0 && g == 0 && b == 0 {
		return 0
	}
	rf := float64(r)
	gf := float64(g)
	bf := float64(b)

	x := -0.14282*rf + 1.54924*gf - 0.95641*bf
	y := -0.32466*rf + 1.57837*gf - 0.73191*bf
	z := -0.68202*rf + 0.77073*gf + 0.56332*bf

	xc := x / (x + y + z)
	yc := y / (x + y + z)

	n := (xc - 0.3320) / (0.1858 - yc)
	cct := 449.0*n*n*n + 3525.0*n*n + 6823.3*n + 5520.33
	return uint16(int64(cct))
}

// Lux estimates illuminance from raw R/G/B counts using the Y row of the
// color temperature matrix as a photopic weighting.
//
// When the weighted sum is negative the result wraps to a large unsigned
// value; kept as-is for compatibility with existing consumers. A physically
// meaningful formula would clamp negative illuminance at zero.
func Lux(r, g, b uint16) uint16 {
	illuminance := -0.32466*float64(r) + 1.57837*float64(g) - 0.73191*float64(b)
	return uint16(int64(illuminance))
}

// ColorTemperatureDN40 converts raw channel counts to correlated color
// temperature using the algorithm from the AMS DN40 application note.
// Returns 0 for saturated or degenerate samples; callers must treat zero as
// an invalid-sample marker, not a temperature.
func ColorTemperatureDN40(it IntegrationTime, gain Gain, r, g, b, c uint16) uint16 {
	if c == 0 {
		return 0
	}

	// The clear channel accumulates 1024 counts per 2.4ms integration cycle,
	// so for fewer than 64 cycles analog saturation is reached before the
	// 65535 digital ceiling.
	cycles := 256 - int(byte(it))
	var sat int
	if cycles > 63 {
		sat = 65535
	} else {
		sat = 1024 * cycles
		// 50/60Hz ripple can keep the clear count below the theoretical
		// maximum while the sample is effectively saturated; at short
		// integration times guard at 75% of the ceiling
		sat -= sat / 4
	}
	if int(c) >= sat {
		return 0
	}

	// The sensor has no dedicated IR channel; infer the IR content from the
	// overlap between the channel sum and the clear count.
	var ir uint16
	if int(r)+int(g)+int(b) > int(c) {
		ir = uint16((int(r) + int(g) + int(b) - int(c)) / 2)
	}
	r2 := r - ir
	g2 := g - ir
	b2 := b - ir

	cpl := float64(cycles) * 2.4 * gain.dn40Multiplier() / 310.0
	// DN40 also defines a green-weighted lux figure; it is not part of this
	// function's contract so the value is dropped.
	lux := (0.136*float64(r2) + float64(g2) - 0.444*float64(b2)) / cpl
	_ = lux

	if r2 == 0 {
		return 0
	}
	return uint16(3810*uint32(b2)/uint32(r2) + 1391)
}
