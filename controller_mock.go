package lm3549

import (
	"context"
)

// FaultBehaviorFunc defines the function signature for fault read behavior.
type FaultBehaviorFunc func(ctx context.Context) (Fault, error)

// CtrlBehaviorFunc defines the function signature for control register read
// behavior.
type CtrlBehaviorFunc func(ctx context.Context) (Ctrl, error)

// MockController is a hardware-free implementation of Controller for
// embedding applications and tests. Write operations record their last
// values; read operations are driven by behavior functions so tests can
// simulate fault conditions without a bus.
//
// Example usage:
//
//	m := NewMockController(
//		func(ctx context.Context) (Fault, error) {
//			return Fault{ThermalShutdown: true, Raw: 0x02}, nil
//		},
//		nil,
//	)
//	fault, _ := m.ReadFault(ctx)
type MockController struct {
	faultBehavior FaultBehaviorFunc
	ctrlBehavior  CtrlBehaviorFunc

	// ForcedError, when set, is returned by every write operation.
	ForcedError error

	ActiveBank Bank
	Currents   [3][3]uint16
	FaderLevel byte
	Ctrl       Ctrl
	Limits     struct {
		Pos PosLimit
		Neg NegLimit
	}
	Mask      FaultMask
	Resets    int
	Shutdowns int
}

// NewMockController creates a mock with the given read behaviors. Nil
// behaviors default to a fault-free chip and the recorded control state.
func NewMockController(faultBehavior FaultBehaviorFunc, ctrlBehavior CtrlBehaviorFunc) *MockController {
	return &MockController{
		faultBehavior: faultBehavior,
		ctrlBehavior:  ctrlBehavior,
	}
}

func (m *MockController) SelectBank(ctx context.Context, bank Bank) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	if !bank.Valid() {
		return invalidParamErr("bank %d out of range [0,2]", bank)
	}
	m.ActiveBank = bank
	return nil
}

func (m *MockController) SetCurrent(ctx context.Context, bank Bank, channel Channel, milliamps uint16) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	if !bank.Valid() {
		return invalidParamErr("bank %d out of range [0,2]", bank)
	}
	if !channel.Valid() {
		return invalidParamErr("channel %d out of range [0,2]", channel)
	}
	if milliamps > MaxCurrent {
		return invalidParamErr("current %d mA out of range [0,%d]", milliamps, MaxCurrent)
	}
	m.Currents[bank][channel] = milliamps
	return nil
}

func (m *MockController) SetBankCurrents(ctx context.Context, bank Bank, r, g, b uint16) error {
	if err := m.SetCurrent(ctx, bank, ChannelRed, r); err != nil {
		return err
	}
	if err := m.SetCurrent(ctx, bank, ChannelGreen, g); err != nil {
		return err
	}
	return m.SetCurrent(ctx, bank, ChannelBlue, b)
}

func (m *MockController) SetFader(ctx context.Context, level byte) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	m.FaderLevel = level
	return nil
}

func (m *MockController) EnableFader(ctx context.Context, enabled bool) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	m.Ctrl.FaderEnabled = enabled
	return nil
}

func (m *MockController) EnablePWMInput(ctx context.Context, enabled bool) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	m.Ctrl.PWMEnabled = enabled
	return nil
}

func (m *MockController) SetSoftStart(ctx context.Context, ss SoftStart) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	if !ss.Valid() {
		return invalidParamErr("soft start code %d out of range [0,3]", ss)
	}
	m.Ctrl.SoftStart = ss
	return nil
}

func (m *MockController) SetStandbyTimeout(ctx context.Context, t Timeout) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	if !t.Valid() {
		return invalidParamErr("timeout code %d out of range [0,3]", t)
	}
	m.Ctrl.Timeout = t
	return nil
}

func (m *MockController) SetCurrentLimits(ctx context.Context, pos PosLimit, neg NegLimit) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	if !pos.Valid() {
		return invalidParamErr("positive limit code %d out of range [0,3]", pos)
	}
	if !neg.Valid() {
		return invalidParamErr("negative limit code %d out of range [0,3]", neg)
	}
	m.Limits.Pos = pos
	m.Limits.Neg = neg
	return nil
}

func (m *MockController) SetFaultMask(ctx context.Context, mask FaultMask) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	m.Mask = mask
	return nil
}

func (m *MockController) ReadFault(ctx context.Context) (Fault, error) {
	if m.faultBehavior != nil {
		return m.faultBehavior(ctx)
	}
	return Fault{}, nil
}

func (m *MockController) ReadCtrl(ctx context.Context) (Ctrl, error) {
	if m.ctrlBehavior != nil {
		return m.ctrlBehavior(ctx)
	}
	return m.Ctrl, nil
}

func (m *MockController) Reset(ctx context.Context) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	m.Resets++
	return nil
}

func (m *MockController) Shutdown(ctx context.Context) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}
	m.Ctrl = Ctrl{}
	m.Shutdowns++
	return nil
}

var _ Controller = &MockController{}
