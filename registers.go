package lm3549

// DefaultAddress is the fixed 7-bit I2C address of the LM3549.
const DefaultAddress = 0x36

// Register is a datasheet-defined register address.
type Register byte

// Register map (LM3549 datasheet, section 7.6). Each bank holds three
// 10-bit current settings stored as LSB/MSB pairs; the register pointer
// auto-increments, so a whole bank can be written in one burst.
const (
	RegBankSel    Register = 0x00
	RegIR0LSB     Register = 0x01
	RegIR0MSB     Register = 0x02
	RegIG0LSB     Register = 0x03
	RegIG0MSB     Register = 0x04
	RegIB0LSB     Register = 0x05
	RegIB0MSB     Register = 0x06
	RegIR1LSB     Register = 0x07
	RegIR1MSB     Register = 0x08
	RegIG1LSB     Register = 0x09
	RegIG1MSB     Register = 0x0A
	RegIB1LSB     Register = 0x0B
	RegIB1MSB     Register = 0x0C
	RegIR2LSB     Register = 0x0D
	RegIR2MSB     Register = 0x0E
	RegIG2LSB     Register = 0x0F
	RegIG2MSB     Register = 0x10
	RegIB2LSB     Register = 0x11
	RegIB2MSB     Register = 0x12
	RegFader      Register = 0x13
	RegCtrl       Register = 0x14
	RegIlimit     Register = 0x15
	RegFaultMask  Register = 0x16
	RegFault      Register = 0x17
	RegUser1      Register = 0x19
	RegUser2      Register = 0x1A
	RegEepromCtrl Register = 0x40
)

// validRegisters is the set of addresses the raw register operations accept.
var validRegisters = map[Register]bool{
	RegBankSel: true, RegIR0LSB: true, RegIR0MSB: true, RegIG0LSB: true,
	RegIG0MSB: true, RegIB0LSB: true, RegIB0MSB: true, RegIR1LSB: true,
	RegIR1MSB: true, RegIG1LSB: true, RegIG1MSB: true, RegIB1LSB: true,
	RegIB1MSB: true, RegIR2LSB: true, RegIR2MSB: true, RegIG2LSB: true,
	RegIG2MSB: true, RegIB2LSB: true, RegIB2MSB: true, RegFader: true,
	RegCtrl: true, RegIlimit: true, RegFaultMask: true, RegFault: true,
	RegUser1: true, RegUser2: true, RegEepromCtrl: true,
}

// Field describes one named bit-subrange of a register: its bit offset,
// width and highest legal encoded value. Max is below 1<<Width when the
// datasheet reserves trailing codes. All fields are compile-time constants;
// encode/decode is pure bit arithmetic driven by this table.
type Field struct {
	Reg    Register
	Offset uint8
	Width  uint8
	Max    uint8
}

// Mask returns the bits the field occupies within its register byte.
func (f Field) Mask() byte {
	return byte(1<<f.Width-1) << f.Offset
}

// Encode validates v against the field's legal range and returns it shifted
// into position. Out-of-range values are rejected, never clamped.
func (f Field) Encode(v uint8) (byte, error) {
	if v > f.Max {
		return 0, invalidParamErr("field value %d exceeds maximum %d", v, f.Max)
	}
	return v << f.Offset, nil
}

// Decode extracts the field's value from a raw register byte.
func (f Field) Decode(raw byte) uint8 {
	return (raw & f.Mask()) >> f.Offset
}

// covers reports whether the field spans the whole register byte, in which
// case a plain write needs no preceding read.
func (f Field) covers() bool {
	return f.Offset == 0 && f.Width == 8
}

// CTRL register fields.
var (
	FieldSoftStart = Field{Reg: RegCtrl, Offset: 4, Width: 2, Max: 3}
	FieldTimeout   = Field{Reg: RegCtrl, Offset: 2, Width: 2, Max: 3}
	FieldMFE       = Field{Reg: RegCtrl, Offset: 1, Width: 1, Max: 1}
	FieldPWM       = Field{Reg: RegCtrl, Offset: 0, Width: 1, Max: 1}
)

// ILIMIT register fields.
var (
	FieldPosLimit = Field{Reg: RegIlimit, Offset: 4, Width: 2, Max: 3}
	FieldNegLimit = Field{Reg: RegIlimit, Offset: 0, Width: 2, Max: 3}
)

// BANKSEL holds a 2-bit bank code; code 3 is reserved.
var FieldBankSel = Field{Reg: RegBankSel, Offset: 0, Width: 2, Max: 2}

// FADER is a full-byte master fade level.
var FieldFader = Field{Reg: RegFader, Offset: 0, Width: 8, Max: 255}

// Bank selects one of the three current-setting banks.
type Bank uint8

const (
	Bank0 Bank = iota
	Bank1
	Bank2
)

func (b Bank) Valid() bool { return b <= Bank2 }

// baseRegister returns the first current register of the bank (red LSB).
func (b Bank) baseRegister() Register {
	return RegIR0LSB + Register(b)*6
}

// Channel identifies one of the sequential LED drivers.
type Channel uint8

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
)

func (c Channel) Valid() bool { return c <= ChannelBlue }

func (c Channel) String() string {
	switch c {
	case ChannelRed:
		return "red"
	case ChannelGreen:
		return "green"
	case ChannelBlue:
		return "blue"
	}
	return "unknown"
}

// currentRegisters returns the LSB/MSB register pair holding the 10-bit
// current code of the channel within the bank.
func currentRegisters(b Bank, c Channel) (lsb, msb Register) {
	lsb = b.baseRegister() + Register(c)*2
	return lsb, lsb + 1
}

// MaxCurrent is the highest programmable current code in milliamps.
// The 10-bit register code maps 1:1 to milliamps.
const MaxCurrent = 1023

// currentMSBMask covers the two payload bits of a current MSB register;
// bits [7:2] are reserved and must be preserved on partial updates.
const currentMSBMask = 0x03

// SoftStart selects the soft start ramp applied when drivers turn on.
type SoftStart uint8

const (
	SoftStartNone SoftStart = iota
	SoftStart500ms
	SoftStart1s
	SoftStart2s
)

func (s SoftStart) Valid() bool { return s <= SoftStart2s }

func (s SoftStart) String() string {
	switch s {
	case SoftStartNone:
		return "none"
	case SoftStart500ms:
		return "500ms"
	case SoftStart1s:
		return "1s"
	case SoftStart2s:
		return "2s"
	}
	return "unknown"
}

// Timeout selects how long the device stays active after all enable
// inputs have gone low.
type Timeout uint8

const (
	Timeout125ms Timeout = iota
	Timeout250ms
	Timeout500ms
	Timeout1s
)

func (t Timeout) Valid() bool { return t <= Timeout1s }

func (t Timeout) String() string {
	switch t {
	case Timeout125ms:
		return "125ms"
	case Timeout250ms:
		return "250ms"
	case Timeout500ms:
		return "500ms"
	case Timeout1s:
		return "1s"
	}
	return "unknown"
}

// PosLimit is the buck-boost converter positive current limit.
type PosLimit uint8

const (
	PosLimit500mA PosLimit = iota
	PosLimit1000mA
	PosLimit1500mA
	PosLimit2000mA
)

func (p PosLimit) Valid() bool { return p <= PosLimit2000mA }

func (p PosLimit) String() string {
	switch p {
	case PosLimit500mA:
		return "500mA"
	case PosLimit1000mA:
		return "1000mA"
	case PosLimit1500mA:
		return "1500mA"
	case PosLimit2000mA:
		return "2000mA"
	}
	return "unknown"
}

// NegLimit is the buck-boost converter negative current limit.
type NegLimit uint8

const (
	NegLimit550mA NegLimit = iota
	NegLimit1100mA
	NegLimit1650mA
	NegLimit2200mA
)

func (n NegLimit) Valid() bool { return n <= NegLimit2200mA }

func (n NegLimit) String() string {
	switch n {
	case NegLimit550mA:
		return "550mA"
	case NegLimit1100mA:
		return "1100mA"
	case NegLimit1650mA:
		return "1650mA"
	case NegLimit2200mA:
		return "2200mA"
	}
	return "unknown"
}

// FaultSource identifies the driver reported by an open/short fault field.
type FaultSource uint8

const (
	FaultSourceNone FaultSource = iota
	FaultSourceRed
	FaultSourceGreen
	FaultSourceBlue
)

func (f FaultSource) String() string {
	switch f {
	case FaultSourceRed:
		return "red"
	case FaultSourceGreen:
		return "green"
	case FaultSourceBlue:
		return "blue"
	}
	return "none"
}

// FAULT register bit layout.
const (
	faultShortShift  = 5
	faultOpenShift   = 3
	faultSourceMask  = 0x03
	faultBitUVLO     = 0x04
	faultBitTSD      = 0x02
	faultBitOCP      = 0x01
	faultReservedBit = 0x80
)

// Fault is a decoded, point-in-time snapshot of the FAULT register. It is
// never cached by the driver: faults arise asynchronously in hardware, so
// every ReadFault performs a fresh bus read.
type Fault struct {
	Raw             byte
	Shorted         FaultSource
	Open            FaultSource
	Undervoltage    bool
	ThermalShutdown bool
	Overcurrent     bool
}

// OK reports whether no fault flag is active.
func (f Fault) OK() bool {
	return f.Shorted == FaultSourceNone && f.Open == FaultSourceNone &&
		!f.Undervoltage && !f.ThermalShutdown && !f.Overcurrent
}

// decodeFault translates a raw FAULT byte. The reserved top bit must read
// zero; anything else indicates the part at the address is not an LM3549.
func decodeFault(raw byte) (Fault, error) {
	if raw&faultReservedBit != 0 {
		return Fault{}, protocolErr("fault register reserved bit set (raw %#02x)", raw)
	}
	return Fault{
		Raw:             raw,
		Shorted:         FaultSource(raw >> faultShortShift & faultSourceMask),
		Open:            FaultSource(raw >> faultOpenShift & faultSourceMask),
		Undervoltage:    raw&faultBitUVLO != 0,
		ThermalShutdown: raw&faultBitTSD != 0,
		Overcurrent:     raw&faultBitOCP != 0,
	}, nil
}

// FaultMask selects which faults drive the FAULT open-drain output.
type FaultMask struct {
	Shorted         bool
	Open            bool
	Undervoltage    bool
	ThermalShutdown bool
	Overcurrent     bool
}

const (
	maskBitShort = 0x10
	maskBitOpen  = 0x08
)

func (m FaultMask) encode() byte {
	var raw byte
	if m.Shorted {
		raw |= maskBitShort
	}
	if m.Open {
		raw |= maskBitOpen
	}
	if m.Undervoltage {
		raw |= faultBitUVLO
	}
	if m.ThermalShutdown {
		raw |= faultBitTSD
	}
	if m.Overcurrent {
		raw |= faultBitOCP
	}
	return raw
}

// Ctrl is a decoded view of the CTRL register.
type Ctrl struct {
	SoftStart SoftStart
	Timeout   Timeout
	// FaderEnabled enables fade control from the FADER register.
	FaderEnabled bool
	// PWMEnabled enables fade control from the PWM input (overrides the
	// fader when set).
	PWMEnabled bool
}

func decodeCtrl(raw byte) Ctrl {
	return Ctrl{
		SoftStart:    SoftStart(FieldSoftStart.Decode(raw)),
		Timeout:      Timeout(FieldTimeout.Decode(raw)),
		FaderEnabled: FieldMFE.Decode(raw) == 1,
		PWMEnabled:   FieldPWM.Decode(raw) == 1,
	}
}

// EEPROM control commands (EEPROM_CTRL register). Program copies the
// register file into on-chip EEPROM; recall reloads it.
const (
	eepromCmdProgram byte = 0x01
	eepromCmdRecall  byte = 0x02
)
