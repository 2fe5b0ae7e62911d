package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm3549/cmd/lm3549/console"
)

var currentCmd = cli.Command{
	Name: "current",
	Subcommands: []*cli.Command{
		&currentSetCmd,
		&currentBankCmd,
	},
}

var currentSetCmd = cli.Command{
	Name:      "set",
	Usage:     "set one channel current",
	ArgsUsage: "<bank 0-2> <red|green|blue> <milliamps>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 3 {
			return console.Exit(1, "expected 3 arguments, got %d", c.NArg())
		}
		bank, err := parseBank(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		channel, err := parseChannel(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		milliamps, err := parseMilliamps(c.Args().Get(2))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.SetCurrent(ctx, bank, channel, milliamps)
		if err != nil {
			return console.Exit(1, "error setting current: %s", console.Red(err))
		}
		console.PInfof(console.PictoBulb, "bank %d %s current set to %s mA", bank, channel, console.White(milliamps))
		return nil
	},
}

var currentBankCmd = cli.Command{
	Name:      "bank",
	Usage:     "set all three channel currents of a bank",
	ArgsUsage: "<bank 0-2> <red mA> <green mA> <blue mA>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 4 {
			return console.Exit(1, "expected 4 arguments, got %d", c.NArg())
		}
		bank, err := parseBank(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		var currents [3]uint16
		for i := range currents {
			currents[i], err = parseMilliamps(c.Args().Get(i + 1))
			if err != nil {
				return console.Exit(1, "%v", err)
			}
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.SetBankCurrents(ctx, bank, currents[0], currents[1], currents[2])
		if err != nil {
			return console.Exit(1, "error setting bank currents: %s", console.Red(err))
		}
		console.PInfof(console.PictoBulb, "bank %d currents set to %s/%s/%s mA", bank,
			console.White(currents[0]), console.White(currents[1]), console.White(currents[2]))
		return nil
	},
}
