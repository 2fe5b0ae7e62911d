package lm3549

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockI2CBus is a mock implementation of I2CBus using testify/mock. The
// recorded calls double as a transaction counter, so tests can assert that
// rejected parameters produce zero bus traffic.
type MockI2CBus struct {
	mock.Mock
}

func (m *MockI2CBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	return args.Error(0)
}

func (m *MockI2CBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	args := m.Called(ctx, address, buffer)
	if args.Get(0) != nil {
		if data, ok := args.Get(0).([]byte); ok && len(data) <= len(buffer) {
			copy(buffer, data)
		}
	}
	return args.Error(1)
}

func (m *MockI2CBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// expectRegisterRead sets up the pointer-write + read pair a register read
// costs on the wire.
func expectRegisterRead(bus *MockI2CBus, reg Register, value byte) {
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(reg)}).
		Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return([]byte{value}, nil).Once()
}

func TestSetCurrent_TransactionSequence(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus)
	ctx := context.Background()

	// MSB register holds reserved bits that must survive the update.
	expectRegisterRead(bus, RegIR0MSB, 0xA5)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegIR0LSB), 0x14, 0xA4}).
		Return(nil).Once()

	err := dev.SetCurrent(ctx, Bank0, ChannelRed, 20)
	assert.NoError(t, err)
	assert.Len(t, bus.Calls, 3, "one register read (pointer write + read) and one burst write")
	bus.AssertExpectations(t)
}

func TestSetCurrent_RegisterSelection(t *testing.T) {
	tests := []struct {
		name    string
		bank    Bank
		channel Channel
		lsb     Register
	}{
		{name: "bank 0 red", bank: Bank0, channel: ChannelRed, lsb: RegIR0LSB},
		{name: "bank 0 blue", bank: Bank0, channel: ChannelBlue, lsb: RegIB0LSB},
		{name: "bank 1 green", bank: Bank1, channel: ChannelGreen, lsb: RegIG1LSB},
		{name: "bank 2 blue", bank: Bank2, channel: ChannelBlue, lsb: RegIB2LSB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			dev := New(bus)

			expectRegisterRead(bus, tt.lsb+1, 0x00)
			bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(tt.lsb), 0xFF, 0x03}).
				Return(nil).Once()

			err := dev.SetCurrent(context.Background(), tt.bank, tt.channel, 1023)
			assert.NoError(t, err)
			bus.AssertExpectations(t)
		})
	}
}

func TestSetCurrent_InvalidParameters(t *testing.T) {
	tests := []struct {
		name      string
		bank      Bank
		channel   Channel
		milliamps uint16
	}{
		{name: "current above range", bank: Bank0, channel: ChannelRed, milliamps: 1024},
		{name: "current far above range", bank: Bank0, channel: ChannelRed, milliamps: 5000},
		{name: "reserved bank", bank: Bank(3), channel: ChannelRed, milliamps: 20},
		{name: "unknown channel", bank: Bank0, channel: Channel(3), milliamps: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			dev := New(bus)

			err := dev.SetCurrent(context.Background(), tt.bank, tt.channel, tt.milliamps)
			assert.ErrorIs(t, err, ErrInvalidParameter)
			assert.Empty(t, bus.Calls, "rejected parameters must produce zero bus transactions")
		})
	}
}

func TestSetCurrent_ReadFailureAbortsWrite(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus)

	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegIR0MSB)}).
		Return(nil).Once()
	bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
		Return(nil, errors.New("i2c nack")).Once()

	err := dev.SetCurrent(context.Background(), Bank0, ChannelRed, 20)
	assert.ErrorIs(t, err, ErrBus)
	assert.Len(t, bus.Calls, 2, "the data write must not be attempted after a failed read")
	bus.AssertExpectations(t)
}

func TestSetBankCurrents_BurstLayout(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus)

	// 10-bit codes split little-end first across the LSB/MSB pairs.
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress),
		[]byte{byte(RegIR1LSB), 0xE8, 0x03, 0x64, 0x00, 0x2C, 0x01}).
		Return(nil).Once()

	err := dev.SetBankCurrents(context.Background(), Bank1, 1000, 100, 300)
	assert.NoError(t, err)
	assert.Len(t, bus.Calls, 1)
	bus.AssertExpectations(t)
}

func TestSetBankCurrents_InvalidCurrent(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus)

	err := dev.SetBankCurrents(context.Background(), Bank0, 100, 2000, 100)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Empty(t, bus.Calls)
}

func TestReadModifyWrite_PreservesSiblingBits(t *testing.T) {
	tests := []struct {
		name    string
		initial byte
		field   Field
		act     func(dev *LM3549, ctx context.Context) error
	}{
		{
			name:    "standby timeout",
			initial: 0x73,
			field:   FieldTimeout,
			act: func(dev *LM3549, ctx context.Context) error {
				return dev.SetStandbyTimeout(ctx, Timeout500ms)
			},
		},
		{
			name:    "soft start",
			initial: 0xCF,
			field:   FieldSoftStart,
			act: func(dev *LM3549, ctx context.Context) error {
				return dev.SetSoftStart(ctx, SoftStart1s)
			},
		},
		{
			name:    "fader enable",
			initial: 0xA5,
			field:   FieldMFE,
			act: func(dev *LM3549, ctx context.Context) error {
				return dev.EnableFader(ctx, true)
			},
		},
		{
			name:    "pwm disable",
			initial: 0xFF,
			field:   FieldPWM,
			act: func(dev *LM3549, ctx context.Context) error {
				return dev.EnablePWMInput(ctx, false)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			dev := New(bus)

			expectRegisterRead(bus, RegCtrl, tt.initial)
			var written byte
			bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), mock.MatchedBy(func(buf []byte) bool {
				if len(buf) != 2 || buf[0] != byte(RegCtrl) {
					return false
				}
				written = buf[1]
				return true
			})).Return(nil).Once()

			err := tt.act(dev, context.Background())
			assert.NoError(t, err)
			assert.Zero(t, (tt.initial^written)&^tt.field.Mask(),
				"bits outside the target field must not change (initial %#02x, written %#02x)", tt.initial, written)
			bus.AssertExpectations(t)
		})
	}
}

func TestEnableFader_WritesMFEBit(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus)

	expectRegisterRead(bus, RegCtrl, 0x00)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegCtrl), 0x02}).
		Return(nil).Once()

	err := dev.EnableFader(context.Background(), true)
	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestSelectBank(t *testing.T) {
	t.Run("writes bank code", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		expectRegisterRead(bus, RegBankSel, 0x00)
		bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegBankSel), 0x01}).
			Return(nil).Once()

		err := dev.SelectBank(context.Background(), Bank1)
		assert.NoError(t, err)
		bus.AssertExpectations(t)
	})

	t.Run("reserved bank code rejected", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		err := dev.SelectBank(context.Background(), Bank(3))
		assert.ErrorIs(t, err, ErrInvalidParameter)
		assert.Empty(t, bus.Calls)
	})
}

func TestSetFader_FullByteNeedsNoRead(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus)

	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegFader), 0x80}).
		Return(nil).Once()

	err := dev.SetFader(context.Background(), 0x80)
	assert.NoError(t, err)
	assert.Len(t, bus.Calls, 1)
	bus.AssertExpectations(t)
}

func TestSetCurrentLimits(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus)

	expectRegisterRead(bus, RegIlimit, 0xFF)
	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegIlimit), 0xDD}).
		Return(nil).Once()

	err := dev.SetCurrentLimits(context.Background(), PosLimit1000mA, NegLimit1100mA)
	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestSetFaultMask(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus)

	bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegFaultMask), 0x16}).
		Return(nil).Once()

	err := dev.SetFaultMask(context.Background(), FaultMask{
		Shorted:         true,
		Undervoltage:    true,
		ThermalShutdown: true,
	})
	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestReadFault(t *testing.T) {
	t.Run("thermal fault decoded", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		expectRegisterRead(bus, RegFault, 0x02)

		fault, err := dev.ReadFault(context.Background())
		assert.NoError(t, err)
		assert.True(t, fault.ThermalShutdown)
		assert.False(t, fault.Undervoltage)
		assert.False(t, fault.Overcurrent)
		assert.Equal(t, FaultSourceNone, fault.Shorted)
		assert.Equal(t, FaultSourceNone, fault.Open)
		assert.False(t, fault.OK())
		bus.AssertExpectations(t)
	})

	t.Run("open and short sources decoded", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		// short=green ([6:5]=10), open=red ([4:3]=01), ocp set
		expectRegisterRead(bus, RegFault, 0x49)

		fault, err := dev.ReadFault(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, FaultSourceGreen, fault.Shorted)
		assert.Equal(t, FaultSourceRed, fault.Open)
		assert.True(t, fault.Overcurrent)
		bus.AssertExpectations(t)
	})

	t.Run("no faults", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		expectRegisterRead(bus, RegFault, 0x00)

		fault, err := dev.ReadFault(context.Background())
		assert.NoError(t, err)
		assert.True(t, fault.OK())
		bus.AssertExpectations(t)
	})

	t.Run("nack surfaces as bus error", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegFault)}).
			Return(nil).Once()
		bus.On("ReadFromAddr", mock.Anything, byte(DefaultAddress), mock.Anything).
			Return(nil, errors.New("i2c nack")).Once()

		_, err := dev.ReadFault(context.Background())
		assert.ErrorIs(t, err, ErrBus)
		assert.NotErrorIs(t, err, ErrProtocol)
		bus.AssertExpectations(t)
	})

	t.Run("pointer write failure aborts read", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegFault)}).
			Return(errors.New("arbitration lost")).Once()

		_, err := dev.ReadFault(context.Background())
		assert.ErrorIs(t, err, ErrBus)
		assert.Len(t, bus.Calls, 1)
		bus.AssertExpectations(t)
	})

	t.Run("reserved bit set is a protocol error", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		expectRegisterRead(bus, RegFault, 0x82)

		_, err := dev.ReadFault(context.Background())
		assert.ErrorIs(t, err, ErrProtocol)
		bus.AssertExpectations(t)
	})
}

func TestReadCtrl(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus)

	// softstart=2s, timeout=250ms, mfe on, pwm off
	expectRegisterRead(bus, RegCtrl, 0x36)

	ctrl, err := dev.ReadCtrl(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, SoftStart2s, ctrl.SoftStart)
	assert.Equal(t, Timeout250ms, ctrl.Timeout)
	assert.True(t, ctrl.FaderEnabled)
	assert.False(t, ctrl.PWMEnabled)
	bus.AssertExpectations(t)
}

func TestUserRegisters(t *testing.T) {
	t.Run("write and read", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegUser1), 0x42}).
			Return(nil).Once()
		expectRegisterRead(bus, RegUser2, 0x17)

		assert.NoError(t, dev.WriteUser(context.Background(), RegUser1, 0x42))
		val, err := dev.ReadUser(context.Background(), RegUser2)
		assert.NoError(t, err)
		assert.Equal(t, byte(0x17), val)
		bus.AssertExpectations(t)
	})

	t.Run("non-user register rejected", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		err := dev.WriteUser(context.Background(), RegCtrl, 0x00)
		assert.ErrorIs(t, err, ErrInvalidParameter)
		_, err = dev.ReadUser(context.Background(), RegFault)
		assert.ErrorIs(t, err, ErrInvalidParameter)
		assert.Empty(t, bus.Calls)
	})
}

func TestRawRegisterAccess(t *testing.T) {
	t.Run("unknown address rejected", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		_, err := dev.ReadRegister(context.Background(), Register(0x18))
		assert.ErrorIs(t, err, ErrInvalidParameter)
		err = dev.WriteRegister(context.Background(), Register(0x50), 0x00)
		assert.ErrorIs(t, err, ErrInvalidParameter)
		assert.Empty(t, bus.Calls)
	})

	t.Run("fault register is read-only", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		err := dev.WriteRegister(context.Background(), RegFault, 0x00)
		assert.ErrorIs(t, err, ErrInvalidParameter)
		assert.Empty(t, bus.Calls)
	})

	t.Run("mapped register round trip", func(t *testing.T) {
		bus := new(MockI2CBus)
		dev := New(bus)

		bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), []byte{byte(RegFader), 0x7F}).
			Return(nil).Once()
		expectRegisterRead(bus, RegFader, 0x7F)

		assert.NoError(t, dev.WriteRegister(context.Background(), RegFader, 0x7F))
		val, err := dev.ReadRegister(context.Background(), RegFader)
		assert.NoError(t, err)
		assert.Equal(t, byte(0x7F), val)
		bus.AssertExpectations(t)
	})
}

func TestCommandWrites(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		act     func(dev *LM3549, ctx context.Context) error
	}{
		{
			name:    "reset recalls EEPROM defaults",
			payload: []byte{byte(RegEepromCtrl), 0x02},
			act:     func(dev *LM3549, ctx context.Context) error { return dev.Reset(ctx) },
		},
		{
			name:    "store programs EEPROM",
			payload: []byte{byte(RegEepromCtrl), 0x01},
			act:     func(dev *LM3549, ctx context.Context) error { return dev.StoreToEEPROM(ctx) },
		},
		{
			name:    "shutdown clears control register",
			payload: []byte{byte(RegCtrl), 0x00},
			act:     func(dev *LM3549, ctx context.Context) error { return dev.Shutdown(ctx) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockI2CBus)
			dev := New(bus)

			bus.On("WriteToAddr", mock.Anything, byte(DefaultAddress), tt.payload).
				Return(nil).Once()

			err := tt.act(dev, context.Background())
			assert.NoError(t, err)
			assert.Len(t, bus.Calls, 1)
			bus.AssertExpectations(t)
		})
	}
}

func TestWithAddress(t *testing.T) {
	bus := new(MockI2CBus)
	dev := New(bus, WithAddress(0x40))

	bus.On("WriteToAddr", mock.Anything, byte(0x40), []byte{byte(RegFader), 0x10}).
		Return(nil).Once()

	err := dev.SetFader(context.Background(), 0x10)
	assert.NoError(t, err)
	bus.AssertExpectations(t)
}
