package lm3549

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is the bus transceiver capability the driver consumes. The driver
// performs synchronous transactions through it and surfaces whatever errors
// it reports; retry and timeout policy belong to the transceiver or the
// caller, never to the driver.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
