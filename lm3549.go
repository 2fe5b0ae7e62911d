package lm3549

import (
	"context"
	"fmt"
)

// Controller is the typed device capability the driver exposes. Embedding
// applications that need to stub out the hardware can depend on this
// interface and use the mock in controller_mock.go.
type Controller interface {
	SelectBank(ctx context.Context, bank Bank) error
	SetCurrent(ctx context.Context, bank Bank, channel Channel, milliamps uint16) error
	SetBankCurrents(ctx context.Context, bank Bank, r, g, b uint16) error
	SetFader(ctx context.Context, level byte) error
	EnableFader(ctx context.Context, enabled bool) error
	EnablePWMInput(ctx context.Context, enabled bool) error
	SetSoftStart(ctx context.Context, ss SoftStart) error
	SetStandbyTimeout(ctx context.Context, t Timeout) error
	SetCurrentLimits(ctx context.Context, pos PosLimit, neg NegLimit) error
	SetFaultMask(ctx context.Context, mask FaultMask) error
	ReadFault(ctx context.Context) (Fault, error)
	ReadCtrl(ctx context.Context) (Ctrl, error)
	Reset(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// LM3549 represents one Texas Instruments LM3549 High Power Sequential LED
// Driver on an I2C bus.
// See: https://www.ti.com/lit/ds/symlink/lm3549.pdf
//
// The handle is exclusive: it performs no internal locking and requires at
// most one in-flight operation at a time. Read-modify-write sequences span
// two bus transactions, so concurrent callers must serialize access
// themselves (e.g. with a mutex around the handle). This keeps the driver
// free of hidden locking overhead on constrained targets.
//
// The driver caches no register mirror; the chip's own state is
// authoritative and partial updates always start from a fresh read.
type LM3549 struct {
	transport I2CBus
	address   byte
	buf       []byte
}

var _ Controller = &LM3549{}

type Config struct {
	Address byte
}

type ConfigOption func(*Config)

// WithAddress overrides the default device address. The LM3549 itself is
// fixed at 0x36; this exists for bus multiplexers that remap addresses.
func WithAddress(address byte) ConfigOption {
	return func(c *Config) {
		c.Address = address
	}
}

// New creates an LM3549 driver over the given bus transceiver.
func New(transport I2CBus, opts ...ConfigOption) *LM3549 {
	config := &Config{Address: DefaultAddress}
	for _, opt := range opts {
		opt(config)
	}
	return &LM3549{
		transport: transport,
		address:   config.Address,
		buf:       make([]byte, 1),
	}
}

// readRegister sets the register pointer and reads one byte back.
func (d *LM3549) readRegister(ctx context.Context, reg Register) (byte, error) {
	err := d.transport.WriteToAddr(ctx, d.address, []byte{byte(reg)})
	if err != nil {
		return 0, busErr(fmt.Sprintf("could not set register pointer %#02x", byte(reg)), err)
	}
	err = d.transport.ReadFromAddr(ctx, d.address, d.buf[:1])
	if err != nil {
		return 0, busErr(fmt.Sprintf("could not read register %#02x", byte(reg)), err)
	}
	return d.buf[0], nil
}

func (d *LM3549) writeRegister(ctx context.Context, reg Register, value byte) error {
	err := d.transport.WriteToAddr(ctx, d.address, []byte{byte(reg), value})
	if err != nil {
		return busErr(fmt.Sprintf("could not write register %#02x", byte(reg)), err)
	}
	return nil
}

// updateField writes a field value, using read-modify-write when the field
// shares its register with other settings. A failed read aborts before the
// write, so the register is never written with a stale value. The two
// transactions are not atomic with respect to the device; see the handle's
// exclusivity contract.
func (d *LM3549) updateField(ctx context.Context, f Field, value uint8) error {
	bits, err := f.Encode(value)
	if err != nil {
		return err
	}
	if f.covers() {
		return d.writeRegister(ctx, f.Reg, bits)
	}
	current, err := d.readRegister(ctx, f.Reg)
	if err != nil {
		return err
	}
	return d.writeRegister(ctx, f.Reg, current&^f.Mask()|bits)
}

// SelectBank makes the given bank the active source of current settings
// for the sequence. Bank code 3 is reserved and rejected.
func (d *LM3549) SelectBank(ctx context.Context, bank Bank) error {
	if !bank.Valid() {
		return invalidParamErr("bank %d out of range [0,2]", bank)
	}
	return d.updateField(ctx, FieldBankSel, uint8(bank))
}

// SetCurrent programs the 10-bit current code of one channel within one
// bank. The code maps 1:1 to milliamps; values above MaxCurrent are
// rejected before any bus traffic. The MSB register is read first so its
// reserved bits [7:2] survive the update, then both halves go out in a
// single auto-increment burst so the chip never latches a torn pair.
func (d *LM3549) SetCurrent(ctx context.Context, bank Bank, channel Channel, milliamps uint16) error {
	if !bank.Valid() {
		return invalidParamErr("bank %d out of range [0,2]", bank)
	}
	if !channel.Valid() {
		return invalidParamErr("channel %d out of range [0,2]", channel)
	}
	if milliamps > MaxCurrent {
		return invalidParamErr("current %d mA out of range [0,%d]", milliamps, MaxCurrent)
	}
	lsbReg, msbReg := currentRegisters(bank, channel)
	msb, err := d.readRegister(ctx, msbReg)
	if err != nil {
		return err
	}
	msb = msb&^byte(currentMSBMask) | byte(milliamps>>8)
	err = d.transport.WriteToAddr(ctx, d.address, []byte{byte(lsbReg), byte(milliamps), msb})
	if err != nil {
		return busErr(fmt.Sprintf("could not write %s current of bank %d", channel, bank), err)
	}
	return nil
}

// SetBankCurrents programs all three channel currents of a bank in one
// 7-byte burst from the bank's base register.
func (d *LM3549) SetBankCurrents(ctx context.Context, bank Bank, r, g, b uint16) error {
	if !bank.Valid() {
		return invalidParamErr("bank %d out of range [0,2]", bank)
	}
	for _, c := range []uint16{r, g, b} {
		if c > MaxCurrent {
			return invalidParamErr("current %d mA out of range [0,%d]", c, MaxCurrent)
		}
	}
	err := d.transport.WriteToAddr(ctx, d.address, []byte{
		byte(bank.baseRegister()),
		byte(r), byte(r >> 8),
		byte(g), byte(g >> 8),
		byte(b), byte(b >> 8),
	})
	if err != nil {
		return busErr(fmt.Sprintf("could not write currents of bank %d", bank), err)
	}
	return nil
}

// SetFader sets the master fade level. Fading must be enabled with
// EnableFader for the level to take effect.
func (d *LM3549) SetFader(ctx context.Context, level byte) error {
	return d.updateField(ctx, FieldFader, level)
}

// EnableFader switches fade control from the FADER register on or off
// (the MFE bit).
func (d *LM3549) EnableFader(ctx context.Context, enabled bool) error {
	return d.updateField(ctx, FieldMFE, boolBit(enabled))
}

// EnablePWMInput switches fade control from the PWM input on or off.
// When enabled it overrides the fader register.
func (d *LM3549) EnablePWMInput(ctx context.Context, enabled bool) error {
	return d.updateField(ctx, FieldPWM, boolBit(enabled))
}

// SetSoftStart selects the soft start ramp time.
func (d *LM3549) SetSoftStart(ctx context.Context, ss SoftStart) error {
	if !ss.Valid() {
		return invalidParamErr("soft start code %d out of range [0,3]", ss)
	}
	return d.updateField(ctx, FieldSoftStart, uint8(ss))
}

// SetStandbyTimeout selects how long the device stays active after all
// enable inputs have gone low.
func (d *LM3549) SetStandbyTimeout(ctx context.Context, t Timeout) error {
	if !t.Valid() {
		return invalidParamErr("timeout code %d out of range [0,3]", t)
	}
	return d.updateField(ctx, FieldTimeout, uint8(t))
}

// SetCurrentLimits programs both buck-boost converter current limits with
// one read-modify-write on the ILIMIT register.
func (d *LM3549) SetCurrentLimits(ctx context.Context, pos PosLimit, neg NegLimit) error {
	if !pos.Valid() {
		return invalidParamErr("positive limit code %d out of range [0,3]", pos)
	}
	if !neg.Valid() {
		return invalidParamErr("negative limit code %d out of range [0,3]", neg)
	}
	current, err := d.readRegister(ctx, RegIlimit)
	if err != nil {
		return err
	}
	posBits, err := FieldPosLimit.Encode(uint8(pos))
	if err != nil {
		return err
	}
	negBits, err := FieldNegLimit.Encode(uint8(neg))
	if err != nil {
		return err
	}
	merged := current &^ (FieldPosLimit.Mask() | FieldNegLimit.Mask())
	return d.writeRegister(ctx, RegIlimit, merged|posBits|negBits)
}

// SetFaultMask selects which faults drive the FAULT open-drain output.
func (d *LM3549) SetFaultMask(ctx context.Context, mask FaultMask) error {
	return d.writeRegister(ctx, RegFaultMask, mask.encode())
}

// ReadFault reads and decodes the FAULT register. The snapshot is taken
// fresh from hardware on every call.
func (d *LM3549) ReadFault(ctx context.Context) (Fault, error) {
	raw, err := d.readRegister(ctx, RegFault)
	if err != nil {
		return Fault{}, err
	}
	return decodeFault(raw)
}

// ReadCtrl reads and decodes the CTRL register.
func (d *LM3549) ReadCtrl(ctx context.Context) (Ctrl, error) {
	raw, err := d.readRegister(ctx, RegCtrl)
	if err != nil {
		return Ctrl{}, err
	}
	return decodeCtrl(raw), nil
}

// ReadUser reads one of the USER scratch registers.
func (d *LM3549) ReadUser(ctx context.Context, reg Register) (byte, error) {
	if reg != RegUser1 && reg != RegUser2 {
		return 0, invalidParamErr("register %#02x is not a user register", byte(reg))
	}
	return d.readRegister(ctx, reg)
}

// WriteUser writes one of the USER scratch registers.
func (d *LM3549) WriteUser(ctx context.Context, reg Register, value byte) error {
	if reg != RegUser1 && reg != RegUser2 {
		return invalidParamErr("register %#02x is not a user register", byte(reg))
	}
	return d.writeRegister(ctx, reg, value)
}

// ReadRegister reads any mapped register. Intended for diagnostics; the
// typed operations are the supported surface.
func (d *LM3549) ReadRegister(ctx context.Context, reg Register) (byte, error) {
	if !validRegisters[reg] {
		return 0, invalidParamErr("unknown register %#02x", byte(reg))
	}
	return d.readRegister(ctx, reg)
}

// WriteRegister writes any mapped writable register. The FAULT register is
// read-only and rejected.
func (d *LM3549) WriteRegister(ctx context.Context, reg Register, value byte) error {
	if !validRegisters[reg] {
		return invalidParamErr("unknown register %#02x", byte(reg))
	}
	if reg == RegFault {
		return invalidParamErr("fault register %#02x is read-only", byte(reg))
	}
	return d.writeRegister(ctx, reg, value)
}

// StoreToEEPROM copies the current register file into the on-chip EEPROM
// so it survives power cycles. EEPROM endurance is limited; callers should
// not invoke this on every configuration change.
func (d *LM3549) StoreToEEPROM(ctx context.Context) error {
	return d.writeRegister(ctx, RegEepromCtrl, eepromCmdProgram)
}

// Reset reloads the register file from EEPROM defaults with a single
// command write.
func (d *LM3549) Reset(ctx context.Context) error {
	return d.writeRegister(ctx, RegEepromCtrl, eepromCmdRecall)
}

// Shutdown clears the CTRL register, disabling fader and PWM control; the
// device drops to standby once its enable inputs deassert and the standby
// timeout elapses. The chip requires no further teardown.
func (d *LM3549) Shutdown(ctx context.Context) error {
	return d.writeRegister(ctx, RegCtrl, 0x00)
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
