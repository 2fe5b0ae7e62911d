package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/lm3549"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

// MCP2221 HID command codes (datasheet section 3.1)
const (
	cmdStatusSetParameters = 0x10
	cmdI2CWriteData        = 0x90
	cmdI2CReadData         = 0x91
	cmdI2CGetData          = 0x40
)

// sub-command byte of 0x10 that cancels the current I2C transfer
const i2cCancelTransfer = 0x10

const reportSize = 64

var ErrNotInitialized = errors.New("adapter not initialized, call Init first")

// MCP2221 drives an LM3549 through the Microchip MCP2221 USB-to-I2C bridge.
// It implements lm3549.I2CBus. The device handle is opened once in Init and
// reused for every transaction.
type MCP2221 struct {
	mx           sync.Mutex
	dev          *hid.Device
	request      []byte
	response     []byte
	responseWait time.Duration
}

// Status is a decoded view of the bridge's I2C engine state.
type Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent"`
	ReadPending            int    `yaml:"read_pending"`
}

func NewMCP2221() *MCP2221 {
	return &MCP2221{
		request:      make([]byte, reportSize),
		response:     make([]byte, reportSize),
		responseWait: 50 * time.Millisecond,
	}
}

// Init locates the bridge on USB and opens it. Exactly one MCP2221 must be
// attached; enumeration with several bridges present is out of scope.
func (d *MCP2221) Init() error {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return fmt.Errorf("MCP2221 device not found")
	}
	if len(devs) > 1 {
		return fmt.Errorf("ambiguous device identification: %d MCP2221 bridges attached", len(devs))
	}
	dev, err := devs[0].Open()
	if err != nil {
		return fmt.Errorf("error opening device: %w", err)
	}
	d.dev = dev
	return nil
}

func (d *MCP2221) Close() error {
	d.mx.Lock()
	defer d.mx.Unlock()
	if d.dev == nil {
		return nil
	}
	err := d.dev.Close()
	d.dev = nil
	return err
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	if len(buffer) > 0 {
		copy(d.request[4:], buffer)
	}
	err := d.transfer(ctx)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	if d.response[1] == 0x01 {
		slog.Debug("mcp2221 I2C engine busy")
		return lm3549.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CReadData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.transfer(ctx)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	if d.response[1] == 0x01 {
		return lm3549.ErrBusBusy
	}
	d.resetBuffers()
	d.request[0] = cmdI2CGetData
	err = d.transfer(ctx)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if d.response[1] == 0x41 {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if d.response[3] == 127 || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), d.response[3])
	}
	copy(buffer, d.response[4:])
	return nil
}

// Release cancels any pending transfer on the bridge's I2C engine, freeing
// the bus after a failed transaction.
func (d *MCP2221) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	_, err := d.cancelTransfer(ctx)
	return err
}

// Status queries the bridge's I2C engine state.
func (d *MCP2221) Status(ctx context.Context) (*Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParameters
	err := d.transfer(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return decodeStatus(d.response), nil
}

func (d *MCP2221) cancelTransfer(ctx context.Context) (*Status, error) {
	d.resetBuffers()
	d.request[0] = cmdStatusSetParameters
	d.request[2] = i2cCancelTransfer
	err := d.transfer(ctx)
	if err != nil {
		return nil, fmt.Errorf("transfer cancel request failed: %w", err)
	}
	return decodeStatus(d.response), nil
}

func decodeStatus(buffer []byte) *Status {
	/*
		9..10:  requested I2C transfer length (16-bit LE)
		11..12: already transferred byte count (16-bit LE)
		13:     internal I2C data buffer counter
		14:     current I2C speed divider
		15:     current I2C timeout value
		16..17: I2C address being used (16-bit LE)
		25:     pending read count
	*/
	status := &Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

// transfer sends the prepared request report and reads the response report.
func (d *MCP2221) transfer(ctx context.Context) error {
	if d.dev == nil {
		return ErrNotInitialized
	}
	if verbose(ctx) {
		slog.Debug("sending report to adapter", "dump", hex.Dump(d.request))
	}
	n, err := d.dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short write: %d", n)
	}
	timer := time.NewTimer(d.responseWait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}
	n, err = d.dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short read: %d", n)
	}
	if verbose(ctx) {
		slog.Debug("read report from adapter", "dump", hex.Dump(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}
