package tcs34725

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// TCS34725 default 7-bit I2C address. The address is fixed in silicon; the
// option exists only for bus multiplexer setups.
const DefaultAddress = 0x29

// Every register access is framed with a command byte: the register address
// with the CMD bit set.
const commandBit = 0x80

// Register map (per datasheet)
const (
	regEnable  byte = 0x00
	regATime   byte = 0x01
	regAILTL   byte = 0x04
	regAILTH   byte = 0x05
	regAIHTL   byte = 0x06
	regAIHTH   byte = 0x07
	regControl byte = 0x0F
	regID      byte = 0x12
	regCDataL  byte = 0x14
	regRDataL  byte = 0x16
	regGDataL  byte = 0x18
	regBDataL  byte = 0x1A
)

// Special function command: clears the RGBC interrupt, no data byte follows.
const cmdClearInterrupt byte = 0x66

// ENABLE register bit definitions:
// Bit0: PON (power on, activates the internal oscillator)
// Bit1: AEN (RGBC ADC enable, starts an integration cycle)
// Bit4: AIEN (RGBC interrupt enable)
const (
	enablePON  byte = 0x01
	enableAEN  byte = 0x02
	enableAIEN byte = 0x10
)

// Known silicon revisions: 0x44 for TCS34721/TCS34725, 0x10 for
// TCS34723/TCS34727.
const (
	idRev44 byte = 0x44
	idRev10 byte = 0x10
)

var ErrDeviceNotFound = errors.New("tcs34725: device not found on the bus")

// IntegrationTime is the ATIME register code controlling the RGBC light
// accumulation window. Longer integration is more sensitive but slower.
type IntegrationTime byte

const (
	IntegrationTime2_4ms IntegrationTime = 0xFF
	IntegrationTime24ms  IntegrationTime = 0xF6
	IntegrationTime50ms  IntegrationTime = 0xEB
	IntegrationTime101ms IntegrationTime = 0xD5
	IntegrationTime154ms IntegrationTime = 0xC0
	IntegrationTime700ms IntegrationTime = 0x00
)

// wait returns how long a fresh integration cycle takes to complete. Values
// are rounded up from the nominal period (2.4ms waits 3ms).
func (it IntegrationTime) wait() time.Duration {
	switch it {
	case IntegrationTime2_4ms:
		return 3 * time.Millisecond
	case IntegrationTime24ms:
		return 24 * time.Millisecond
	case IntegrationTime50ms:
		return 50 * time.Millisecond
	case IntegrationTime101ms:
		return 101 * time.Millisecond
	case IntegrationTime154ms:
		return 154 * time.Millisecond
	default:
		return 700 * time.Millisecond
	}
}

// milliseconds is the nominal integration period.
func (it IntegrationTime) milliseconds() float64 {
	switch it {
	case IntegrationTime2_4ms:
		return 2.4
	case IntegrationTime24ms:
		return 24
	case IntegrationTime50ms:
		return 50
	case IntegrationTime101ms:
		return 101
	case IntegrationTime154ms:
		return 154
	default:
		return 700
	}
}

// multiplier expresses the integration period relative to the shortest
// 2.4ms cycle.
func (it IntegrationTime) multiplier() float64 {
	return it.milliseconds() / 2.4
}

func (it IntegrationTime) String() string {
	switch it {
	case IntegrationTime2_4ms:
		return "2.4ms"
	case IntegrationTime24ms:
		return "24ms"
	case IntegrationTime50ms:
		return "50ms"
	case IntegrationTime101ms:
		return "101ms"
	case IntegrationTime154ms:
		return "154ms"
	case IntegrationTime700ms:
		return "700ms"
	default:
		return fmt.Sprintf("atime(%#x)", byte(it))
	}
}

// ParseIntegrationTime maps a human readable period to its register code.
func ParseIntegrationTime(s string) (IntegrationTime, error) {
	switch s {
	case "2.4ms", "2.4":
		return IntegrationTime2_4ms, nil
	case "24ms", "24":
		return IntegrationTime24ms, nil
	case "50ms", "50":
		return IntegrationTime50ms, nil
	case "101ms", "101":
		return IntegrationTime101ms, nil
	case "154ms", "154":
		return IntegrationTime154ms, nil
	case "700ms", "700":
		return IntegrationTime700ms, nil
	}
	return 0, fmt.Errorf("tcs34725: unknown integration time %q", s)
}

// Gain is the CONTROL register code for the analog amplification applied
// before ADC conversion.
type Gain byte

const (
	Gain1x  Gain = 0x00
	Gain4x  Gain = 0x01
	Gain16x Gain = 0x02
	Gain60x Gain = 0x03
)

// calibrationMultiplier is the gain factor applied in the calibrated channel
// pipeline. Note: the 60x setting maps to a 40x multiplier here; this does
// not match the analog gain but is kept for compatibility with existing
// calibration data.
func (g Gain) calibrationMultiplier() float64 {
	switch g {
	case Gain4x:
		return 4
	case Gain16x:
		return 16
	case Gain60x:
		return 40
	default:
		return 1
	}
}

// dn40Multiplier is the gain factor used by the DN40 counts-per-lux formula.
func (g Gain) dn40Multiplier() float64 {
	switch g {
	case Gain4x:
		return 4
	case Gain16x:
		return 16
	case Gain60x:
		return 60
	default:
		return 1
	}
}

func (g Gain) String() string {
	switch g {
	case Gain1x:
		return "1x"
	case Gain4x:
		return "4x"
	case Gain16x:
		return "16x"
	case Gain60x:
		return "60x"
	default:
		return fmt.Sprintf("gain(%#x)", byte(g))
	}
}

// ParseGain maps a human readable gain to its register code.
func ParseGain(s string) (Gain, error) {
	switch s {
	case "1x", "1":
		return Gain1x, nil
	case "4x", "4":
		return Gain4x, nil
	case "16x", "16":
		return Gain16x, nil
	case "60x", "60":
		return Gain60x, nil
	}
	return 0, fmt.Errorf("tcs34725: unknown gain %q", s)
}

// RawSample holds one acquisition of the four 16-bit channel counts.
type RawSample struct {
	R uint16
	G uint16
	B uint16
	C uint16
}

type Opts struct {
	Address         byte
	IntegrationTime IntegrationTime
	Gain            Gain
	Calibration     CalibrationConstants
}

type Opt func(*Opts)

func WithAddress(address byte) Opt {
	return func(o *Opts) {
		o.Address = address
	}
}

func WithIntegrationTime(it IntegrationTime) Opt {
	return func(o *Opts) {
		o.IntegrationTime = it
	}
}

func WithGain(gain Gain) Opt {
	return func(o *Opts) {
		o.Gain = gain
	}
}

func WithCalibration(cal CalibrationConstants) Opt {
	return func(o *Opts) {
		o.Calibration = cal
	}
}

// TCS34725 represents the AMS (formerly TAOS) TCS34725 RGB color sensor.
// Typical usage:
//
//	s := tcs34725.New(bus, tcs34725.WithGain(tcs34725.Gain4x))
//	sample, err := s.GetRawChannelsOneShot(ctx)
//
// The driver assumes exclusive ownership of the device; concurrent callers
// must serialize access themselves.
type TCS34725 struct {
	transport I2CBus
	addr      byte
	buf       []byte

	ready bool
	it    IntegrationTime
	gain  Gain
	cal   CalibrationConstants
}

func New(transport I2CBus, opts ...Opt) *TCS34725 {
	config := Opts{
		Address:         DefaultAddress,
		IntegrationTime: IntegrationTime2_4ms,
		Gain:            Gain1x,
		Calibration:     DefaultCalibration,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &TCS34725{
		transport: transport,
		addr:      config.Address,
		buf:       make([]byte, 2),
		it:        config.IntegrationTime,
		gain:      config.Gain,
		cal:       config.Calibration,
	}
}

func (s *TCS34725) writeRegister(ctx context.Context, reg, value byte) error {
	return s.transport.WriteToAddr(ctx, s.addr, []byte{commandBit | reg, value})
}

func (s *TCS34725) readRegister8(ctx context.Context, reg byte) (byte, error) {
	err := s.transport.WriteToAddr(ctx, s.addr, []byte{commandBit | reg})
	if err != nil {
		return 0, err
	}
	err = s.transport.ReadFromAddr(ctx, s.addr, s.buf[:1])
	if err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

// readRegister16 reads a 16-bit register pair; the device returns the low
// byte first.
func (s *TCS34725) readRegister16(ctx context.Context, reg byte) (uint16, error) {
	err := s.transport.WriteToAddr(ctx, s.addr, []byte{commandBit | reg})
	if err != nil {
		return 0, err
	}
	err = s.transport.ReadFromAddr(ctx, s.addr, s.buf[:2])
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(s.buf[:2]), nil
}

// Init verifies the sensor is present on the bus, applies the configured
// integration time and gain, and powers the device on. The device boots in
// sleep mode, so without Init all channel reads would return zeros.
// Returns ErrDeviceNotFound when the ID register does not match a known
// silicon revision; no other operation should be attempted in that case.
func (s *TCS34725) Init(ctx context.Context) error {
	id, err := s.readRegister8(ctx, regID)
	if err != nil {
		return fmt.Errorf("tcs34725: could not read device ID: %w", err)
	}
	if id != idRev44 && id != idRev10 {
		return ErrDeviceNotFound
	}
	s.ready = true
	err = s.SetIntegrationTime(ctx, s.it)
	if err != nil {
		return err
	}
	err = s.SetGain(ctx, s.gain)
	if err != nil {
		return err
	}
	return s.enable(ctx)
}

func (s *TCS34725) ensureReady(ctx context.Context) error {
	if s.ready {
		return nil
	}
	return s.Init(ctx)
}

// SetIntegrationTime writes the ATIME register and updates the logical
// mirror used by acquisition waits and the DN40 formulas.
func (s *TCS34725) SetIntegrationTime(ctx context.Context, it IntegrationTime) error {
	err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	err = s.writeRegister(ctx, regATime, byte(it))
	if err != nil {
		return fmt.Errorf("tcs34725: could not write integration time: %w", err)
	}
	s.it = it
	return nil
}

func (s *TCS34725) GetIntegrationTime() IntegrationTime {
	return s.it
}

// SetGain writes the CONTROL register and updates the logical mirror.
func (s *TCS34725) SetGain(ctx context.Context, gain Gain) error {
	err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	err = s.writeRegister(ctx, regControl, byte(gain))
	if err != nil {
		return fmt.Errorf("tcs34725: could not write gain: %w", err)
	}
	s.gain = gain
	return nil
}

func (s *TCS34725) GetGain() Gain {
	return s.gain
}

// SetCalibration replaces the calibration constants. Values are trusted as
// provided.
func (s *TCS34725) SetCalibration(cal CalibrationConstants) {
	s.cal = cal
}

func (s *TCS34725) GetCalibration() CalibrationConstants {
	return s.cal
}

// enable powers the analog block on and starts the RGBC ADC. Setting AEN
// kicks off an automatic integration cycle, so a full integration period has
// to elapse before channel data is valid; reading earlier returns all zeros.
func (s *TCS34725) enable(ctx context.Context) error {
	err := s.writeRegister(ctx, regEnable, enablePON)
	if err != nil {
		return fmt.Errorf("tcs34725: could not power on: %w", err)
	}
	// oscillator warm-up before AEN may be set
	time.Sleep(3 * time.Millisecond)
	err = s.writeRegister(ctx, regEnable, enablePON|enableAEN)
	if err != nil {
		return fmt.Errorf("tcs34725: could not enable the ADC: %w", err)
	}
	return s.waitIntegration(ctx)
}

// disable puts the device in low power sleep mode. Only PON and AEN are
// cleared so the interrupt enable bit survives power cycling.
func (s *TCS34725) disable(ctx context.Context) error {
	reg, err := s.readRegister8(ctx, regEnable)
	if err != nil {
		return fmt.Errorf("tcs34725: could not read enable register: %w", err)
	}
	err = s.writeRegister(ctx, regEnable, reg&^(enablePON|enableAEN))
	if err != nil {
		return fmt.Errorf("tcs34725: could not power off: %w", err)
	}
	return nil
}

// Enable wakes the device from sleep mode and waits for the first
// integration cycle to complete.
func (s *TCS34725) Enable(ctx context.Context) error {
	err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	return s.enable(ctx)
}

// Disable puts the device to sleep to save power.
func (s *TCS34725) Disable(ctx context.Context) error {
	err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	return s.disable(ctx)
}

func (s *TCS34725) waitIntegration(ctx context.Context) error {
	timer := time.NewTimer(s.it.wait())
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetRawChannels reads the clear, red, green and blue channel registers and
// then blocks for one integration period so a subsequent read cannot consume
// data from a cycle that is still accumulating.
func (s *TCS34725) GetRawChannels(ctx context.Context) (RawSample, error) {
	err := s.ensureReady(ctx)
	if err != nil {
		return RawSample{}, err
	}
	var sample RawSample
	sample.C, err = s.readRegister16(ctx, regCDataL)
	if err != nil {
		return RawSample{}, fmt.Errorf("tcs34725: could not read clear channel: %w", err)
	}
	sample.R, err = s.readRegister16(ctx, regRDataL)
	if err != nil {
		return RawSample{}, fmt.Errorf("tcs34725: could not read red channel: %w", err)
	}
	sample.G, err = s.readRegister16(ctx, regGDataL)
	if err != nil {
		return RawSample{}, fmt.Errorf("tcs34725: could not read green channel: %w", err)
	}
	sample.B, err = s.readRegister16(ctx, regBDataL)
	if err != nil {
		return RawSample{}, fmt.Errorf("tcs34725: could not read blue channel: %w", err)
	}
	err = s.waitIntegration(ctx)
	if err != nil {
		return RawSample{}, err
	}
	return sample, nil
}

// GetRawChannelsOneShot wakes the device, performs a single acquisition and
// puts it back to sleep. Trades acquisition latency for power savings when
// continuous operation is not required.
func (s *TCS34725) GetRawChannelsOneShot(ctx context.Context) (RawSample, error) {
	err := s.ensureReady(ctx)
	if err != nil {
		return RawSample{}, err
	}
	err = s.enable(ctx)
	if err != nil {
		return RawSample{}, err
	}
	sample, err := s.GetRawChannels(ctx)
	if err != nil {
		return RawSample{}, err
	}
	err = s.disable(ctx)
	if err != nil {
		return RawSample{}, err
	}
	return sample, nil
}

// GetCalibratedChannels performs a one-shot acquisition and scales each
// channel by the calibration constants and the current integration
// time/gain factors.
func (s *TCS34725) GetCalibratedChannels(ctx context.Context) (CalibratedSample, error) {
	raw, err := s.GetRawChannelsOneShot(ctx)
	if err != nil {
		return CalibratedSample{}, err
	}
	return s.cal.apply(raw, s.it, s.gain), nil
}

// GetRGB reads the color detected by the sensor normalized to the 0-255
// range. A zero clear channel yields black rather than dividing by zero.
func (s *TCS34725) GetRGB(ctx context.Context) (r, g, b float64, err error) {
	sample, err := s.GetRawChannels(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	if sample.C == 0 {
		return 0, 0, 0, nil
	}
	sum := float64(sample.C)
	return float64(sample.R) / sum * 255, float64(sample.G) / sum * 255, float64(sample.B) / sum * 255, nil
}

// GetLux performs an acquisition and returns the estimated illuminance.
func (s *TCS34725) GetLux(ctx context.Context) (uint16, error) {
	sample, err := s.GetRawChannels(ctx)
	if err != nil {
		return 0, err
	}
	return Lux(sample.R, sample.G, sample.B), nil
}

// GetColorTemperature performs an acquisition and returns the correlated
// color temperature in degrees Kelvin using McCamy's approximation.
func (s *TCS34725) GetColorTemperature(ctx context.Context) (uint16, error) {
	sample, err := s.GetRawChannels(ctx)
	if err != nil {
		return 0, err
	}
	return ColorTemperature(sample.R, sample.G, sample.B), nil
}

// GetColorTemperatureDN40 performs an acquisition and returns the correlated
// color temperature using the saturation aware DN40 algorithm with the
// current integration time and gain. A zero result marks an invalid
// (saturated or degenerate) sample.
func (s *TCS34725) GetColorTemperatureDN40(ctx context.Context) (uint16, error) {
	sample, err := s.GetRawChannels(ctx)
	if err != nil {
		return 0, err
	}
	return ColorTemperatureDN40(s.it, s.gain, sample.R, sample.G, sample.B, sample.C), nil
}

// SetInterrupt enables or disables the RGBC clear channel interrupt. The
// other enable register bits are preserved.
func (s *TCS34725) SetInterrupt(ctx context.Context, on bool) error {
	err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	reg, err := s.readRegister8(ctx, regEnable)
	if err != nil {
		return fmt.Errorf("tcs34725: could not read enable register: %w", err)
	}
	if on {
		reg |= enableAIEN
	} else {
		reg &^= enableAIEN
	}
	err = s.writeRegister(ctx, regEnable, reg)
	if err != nil {
		return fmt.Errorf("tcs34725: could not write enable register: %w", err)
	}
	return nil
}

// ClearInterrupt issues the special function command that clears a pending
// interrupt. Unlike regular register writes no data byte follows the
// command byte.
func (s *TCS34725) ClearInterrupt(ctx context.Context) error {
	err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	err = s.transport.WriteToAddr(ctx, s.addr, []byte{commandBit | cmdClearInterrupt})
	if err != nil {
		return fmt.Errorf("tcs34725: could not clear interrupt: %w", err)
	}
	return nil
}

// SetInterruptLimits programs the low and high clear channel thresholds
// that trigger the interrupt.
func (s *TCS34725) SetInterruptLimits(ctx context.Context, low, high uint16) error {
	err := s.ensureReady(ctx)
	if err != nil {
		return err
	}
	for _, w := range []struct {
		reg   byte
		value byte
	}{
		{regAILTL, byte(low & 0xFF)},
		{regAILTH, byte(low >> 8)},
		{regAIHTL, byte(high & 0xFF)},
		{regAIHTH, byte(high >> 8)},
	} {
		err = s.writeRegister(ctx, w.reg, w.value)
		if err != nil {
			return fmt.Errorf("tcs34725: could not write interrupt threshold: %w", err)
		}
	}
	return nil
}
