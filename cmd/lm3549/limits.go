package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm3549"
	"github.com/mklimuk/lm3549/cmd/lm3549/console"
)

var limitsCmd = cli.Command{
	Name:      "limits",
	Usage:     "set the converter current limits",
	ArgsUsage: "<positive mA: 500|1000|1500|2000> <negative mA: 550|1100|1650|2200>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected 2 arguments, got %d", c.NArg())
		}
		pos, err := parsePosLimit(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		neg, err := parseNegLimit(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.SetCurrentLimits(ctx, pos, neg)
		if err != nil {
			return console.Exit(1, "error setting current limits: %s", console.Red(err))
		}
		console.PInfof(console.PictoBolt, "current limits set to +%s/-%s", console.White(pos), console.White(neg))
		return nil
	},
}

var maskCmd = cli.Command{
	Name:  "mask",
	Usage: "select which fault sources raise the fault flag",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{Name: "short", Usage: "mask in shorted driver faults"},
		&cli.BoolFlag{Name: "open", Usage: "mask in open driver faults"},
		&cli.BoolFlag{Name: "uvlo", Usage: "mask in under voltage lock-out"},
		&cli.BoolFlag{Name: "tsd", Usage: "mask in thermal shutdown"},
		&cli.BoolFlag{Name: "ocp", Usage: "mask in overcurrent protection"},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		mask := lm3549.FaultMask{
			Shorted:         c.Bool("short"),
			Open:            c.Bool("open"),
			Undervoltage:    c.Bool("uvlo"),
			ThermalShutdown: c.Bool("tsd"),
			Overcurrent:     c.Bool("ocp"),
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.SetFaultMask(ctx, mask)
		if err != nil {
			return console.Exit(1, "error setting fault mask: %s", console.Red(err))
		}
		console.PInfof(console.PictoCheck, "fault mask updated")
		return nil
	},
}
