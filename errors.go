package lm3549

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every operation fails with exactly one of these kinds,
// checkable with errors.Is.
var (
	// ErrInvalidParameter marks a value outside a field's legal range or a
	// reserved bit pattern. Detected before any bus transaction; the chip is
	// never written.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrBus marks a failed bus transaction (NACK, timeout, arbitration
	// loss). The transceiver's own error is wrapped alongside.
	ErrBus = errors.New("bus transaction failed")

	// ErrProtocol marks a nominally successful transaction whose payload
	// violates the datasheet decode range, which usually means a wiring,
	// address or chip-revision mismatch.
	ErrProtocol = errors.New("protocol violation")
)

func invalidParamErr(format string, args ...interface{}) error {
	return fmt.Errorf("lm3549: %s: %w", fmt.Sprintf(format, args...), ErrInvalidParameter)
}

func busErr(op string, err error) error {
	return fmt.Errorf("lm3549: %s: %w: %w", op, ErrBus, err)
}

func protocolErr(format string, args ...interface{}) error {
	return fmt.Errorf("lm3549: %s: %w", fmt.Sprintf(format, args...), ErrProtocol)
}
