package main

import (
	"context"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/lm3549"
	"github.com/mklimuk/lm3549/adapter"
	"github.com/mklimuk/lm3549/cmd/lm3549/console"
	"github.com/mklimuk/lm3549/i2c"
)

// busFlags are shared by every command that talks to hardware.
var busFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   "mcp2221",
		Usage:   "bus adapter: mcp2221, generic or nanopi",
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Value:   "/dev/i2c-1",
		Usage:   "i2c device path (generic adapter)",
	},
	&cli.IntFlag{
		Name:  "bus",
		Value: 0,
		Usage: "i2c bus id (nanopi adapter)",
	},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

// openBus builds the transceiver selected on the command line. The second
// return value releases the underlying resources.
func openBus(c *cli.Context) (lm3549.I2CBus, func(), error) {
	switch c.String("adapter") {
	case "generic":
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, nil, err
		}
		return bus, func() {
			err := bus.Close()
			if err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}, nil
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		err := npi.I2cBusAdaptor.Connect()
		if err != nil {
			return nil, nil, err
		}
		bus := adapter.NewGobotBus(npi, c.Int("bus"))
		return bus, func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error halting drivers: %s", console.Red(err))
			}
			_ = npi.I2cBusAdaptor.Finalize()
		}, nil
	default:
		a := adapter.NewMCP2221()
		err := a.Init()
		if err != nil {
			return nil, nil, err
		}
		return a, func() {
			if err := a.Close(); err != nil {
				console.Errorf("error closing adapter: %s", console.Red(err))
			}
		}, nil
	}
}

// openDevice opens the selected bus and binds an LM3549 handle to it.
func openDevice(c *cli.Context) (*lm3549.LM3549, context.Context, func(), error) {
	ctx := adapter.SetVerbose(context.Background(), c.Bool("verbose"))
	bus, cleanup, err := openBus(c)
	if err != nil {
		return nil, nil, nil, err
	}
	return lm3549.New(bus), ctx, cleanup, nil
}
