package lm3549

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allFields = map[string]Field{
	"bank select": FieldBankSel,
	"soft start":  FieldSoftStart,
	"timeout":     FieldTimeout,
	"mfe":         FieldMFE,
	"pwm":         FieldPWM,
	"pos limit":   FieldPosLimit,
	"neg limit":   FieldNegLimit,
	"fader":       FieldFader,
}

func TestField_EncodeDecodeRoundTrip(t *testing.T) {
	for name, f := range allFields {
		t.Run(name, func(t *testing.T) {
			for v := 0; v <= int(f.Max); v++ {
				bits, err := f.Encode(uint8(v))
				assert.NoError(t, err)
				assert.Equal(t, uint8(v), f.Decode(bits), "round trip of value %d", v)
				assert.Zero(t, bits&^f.Mask(), "encoded bits must stay within the field mask")
			}
		})
	}
}

func TestField_RawRoundTripOnLegalSubset(t *testing.T) {
	for name, f := range allFields {
		t.Run(name, func(t *testing.T) {
			for raw := 0; raw < 256; raw++ {
				v := f.Decode(byte(raw))
				if v > f.Max {
					// reserved pattern, encoding must refuse it
					_, err := f.Encode(v)
					assert.ErrorIs(t, err, ErrInvalidParameter)
					continue
				}
				bits, err := f.Encode(v)
				assert.NoError(t, err)
				assert.Equal(t, byte(raw)&f.Mask(), bits)
			}
		})
	}
}

func TestField_EncodeRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		field Field
		value uint8
	}{
		{field: FieldBankSel, value: 3},
		{field: FieldSoftStart, value: 4},
		{field: FieldMFE, value: 2},
		{field: FieldPosLimit, value: 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("value %d", tt.value), func(t *testing.T) {
			_, err := tt.field.Encode(tt.value)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestField_Masks(t *testing.T) {
	assert.Equal(t, byte(0x30), FieldSoftStart.Mask())
	assert.Equal(t, byte(0x0C), FieldTimeout.Mask())
	assert.Equal(t, byte(0x02), FieldMFE.Mask())
	assert.Equal(t, byte(0x01), FieldPWM.Mask())
	assert.Equal(t, byte(0x30), FieldPosLimit.Mask())
	assert.Equal(t, byte(0x03), FieldNegLimit.Mask())
	assert.Equal(t, byte(0x03), FieldBankSel.Mask())
	assert.Equal(t, byte(0xFF), FieldFader.Mask())
}

func TestCurrentRegisters(t *testing.T) {
	tests := []struct {
		bank    Bank
		channel Channel
		lsb     Register
		msb     Register
	}{
		{bank: Bank0, channel: ChannelRed, lsb: RegIR0LSB, msb: RegIR0MSB},
		{bank: Bank0, channel: ChannelGreen, lsb: RegIG0LSB, msb: RegIG0MSB},
		{bank: Bank0, channel: ChannelBlue, lsb: RegIB0LSB, msb: RegIB0MSB},
		{bank: Bank1, channel: ChannelRed, lsb: RegIR1LSB, msb: RegIR1MSB},
		{bank: Bank2, channel: ChannelGreen, lsb: RegIG2LSB, msb: RegIG2MSB},
		{bank: Bank2, channel: ChannelBlue, lsb: RegIB2LSB, msb: RegIB2MSB},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("bank %d %s", tt.bank, tt.channel), func(t *testing.T) {
			lsb, msb := currentRegisters(tt.bank, tt.channel)
			assert.Equal(t, tt.lsb, lsb)
			assert.Equal(t, tt.msb, msb)
		})
	}
}

func TestBankBaseRegisters(t *testing.T) {
	assert.Equal(t, RegIR0LSB, Bank0.baseRegister())
	assert.Equal(t, RegIR1LSB, Bank1.baseRegister())
	assert.Equal(t, RegIR2LSB, Bank2.baseRegister())
}

func TestDecodeFault(t *testing.T) {
	tests := []struct {
		name     string
		raw      byte
		expected Fault
	}{
		{
			name:     "clean",
			raw:      0x00,
			expected: Fault{Raw: 0x00},
		},
		{
			name:     "thermal shutdown",
			raw:      0x02,
			expected: Fault{Raw: 0x02, ThermalShutdown: true},
		},
		{
			name:     "undervoltage and overcurrent",
			raw:      0x05,
			expected: Fault{Raw: 0x05, Undervoltage: true, Overcurrent: true},
		},
		{
			name:     "blue short",
			raw:      0x60,
			expected: Fault{Raw: 0x60, Shorted: FaultSourceBlue},
		},
		{
			name:     "green open",
			raw:      0x10,
			expected: Fault{Raw: 0x10, Open: FaultSourceGreen},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fault, err := decodeFault(tt.raw)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, fault)
			assert.Equal(t, tt.raw == 0x00, fault.OK())
		})
	}

	t.Run("reserved bit", func(t *testing.T) {
		_, err := decodeFault(0x80)
		assert.ErrorIs(t, err, ErrProtocol)
	})
}

func TestDecodeCtrl(t *testing.T) {
	ctrl := decodeCtrl(0x00)
	assert.Equal(t, Ctrl{}, ctrl)

	ctrl = decodeCtrl(0x3F)
	assert.Equal(t, Ctrl{
		SoftStart:    SoftStart2s,
		Timeout:      Timeout1s,
		FaderEnabled: true,
		PWMEnabled:   true,
	}, ctrl)
}

func TestFaultMask_Encode(t *testing.T) {
	assert.Equal(t, byte(0x00), FaultMask{}.encode())
	assert.Equal(t, byte(0x1F), FaultMask{
		Shorted:         true,
		Open:            true,
		Undervoltage:    true,
		ThermalShutdown: true,
		Overcurrent:     true,
	}.encode())
	assert.Equal(t, byte(0x11), FaultMask{Shorted: true, Overcurrent: true}.encode())
}
