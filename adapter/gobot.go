package adapter

import (
	"context"
	"fmt"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/lm3549"
)

var _ lm3549.I2CBus = &GobotBus{}

// GobotBus adapts a Gobot I2C connector (NanoPi, Raspberry Pi, ...) to
// lm3549.I2CBus. Drivers are created lazily per device address and reused.
type GobotBus struct {
	connector i2c.Connector
	busID     int
	drivers   map[byte]*i2c.GenericDriver
}

func NewGobotBus(connector i2c.Connector, busID int) *GobotBus {
	return &GobotBus{
		connector: connector,
		busID:     busID,
		drivers:   map[byte]*i2c.GenericDriver{},
	}
}

func (b *GobotBus) driver(address byte) (*i2c.GenericDriver, error) {
	if d, ok := b.drivers[address]; ok {
		return d, nil
	}
	d := i2c.NewGenericDriver(b.connector, "lm3549", int(address), func(c i2c.Config) {
		c.SetBus(b.busID)
	})
	err := d.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start driver for address %#x: %w", address, err)
	}
	b.drivers[address] = d
	return d, nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d, err := b.driver(address)
	if err != nil {
		return err
	}
	err = d.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c address %#x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d, err := b.driver(address)
	if err != nil {
		return err
	}
	err = d.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c address %#x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

func (b *GobotBus) Close() error {
	var firstErr error
	for addr, d := range b.drivers {
		if err := d.Halt(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not halt driver for address %#x: %w", addr, err)
		}
	}
	b.drivers = map[byte]*i2c.GenericDriver{}
	return firstErr
}
