package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm3549/cmd/lm3549/console"
)

var bankCmd = cli.Command{
	Name:      "bank",
	Usage:     "select the active current bank",
	ArgsUsage: "<bank 0-2>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		bank, err := parseBank(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.SelectBank(ctx, bank)
		if err != nil {
			return console.Exit(1, "error selecting bank: %s", console.Red(err))
		}
		console.PInfof(console.PictoBulb, "active bank set to %s", console.White(bank))
		return nil
	},
}
