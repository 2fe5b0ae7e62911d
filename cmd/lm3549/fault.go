package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm3549"
	"github.com/mklimuk/lm3549/cmd/lm3549/console"
)

var faultCmd = cli.Command{
	Name: "fault",
	Subcommands: []*cli.Command{
		&faultReadCmd,
	},
}

var faultReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Flags:   busFlags,
	Action: func(c *cli.Context) error {
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		fault, err := dev.ReadFault(ctx)
		if err != nil {
			return console.Exit(1, "error reading fault register: %s", console.Red(err))
		}
		printFault(fault)
		return nil
	},
}

func printFault(fault lm3549.Fault) {
	if fault.OK() {
		console.PInfof(console.PictoCheck, "no active faults (raw %#02x)", fault.Raw)
		return
	}
	console.Printf("fault register: %s\n", console.Bold(console.Red(fmt.Sprintf("%#02x", fault.Raw))))
	if fault.ThermalShutdown {
		console.PInfof(console.PictoThermometer, "thermal shutdown")
	}
	if fault.Undervoltage {
		console.PInfof(console.PictoBolt, "under voltage lock-out")
	}
	if fault.Overcurrent {
		console.PInfof(console.PictoBolt, "overcurrent protection")
	}
	if fault.Shorted != lm3549.FaultSourceNone {
		console.PInfof(console.PictoWarning, "shorted driver: %s", console.Red(fault.Shorted))
	}
	if fault.Open != lm3549.FaultSourceNone {
		console.PInfof(console.PictoWarning, "open driver: %s", console.Red(fault.Open))
	}
}
