package main

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm3549"
	"github.com/mklimuk/lm3549/cmd/lm3549/console"
)

var registerCmd = cli.Command{
	Name:    "register",
	Aliases: []string{"reg"},
	Subcommands: []*cli.Command{
		&registerReadCmd,
		&registerWriteCmd,
	},
}

var registerReadCmd = cli.Command{
	Name:      "read",
	Aliases:   []string{"rd"},
	Usage:     "read a raw register",
	ArgsUsage: "<register, e.g. 0x14>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		reg, err := parseByte(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "invalid register %q: %v", c.Args().Get(0), err)
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		value, err := dev.ReadRegister(ctx, lm3549.Register(reg))
		if err != nil {
			return console.Exit(1, "error reading register: %s", console.Red(err))
		}
		console.Printf("%#02x: %s\n", reg, console.White(console.Bold(value)))
		return nil
	},
}

var registerWriteCmd = cli.Command{
	Name:      "write",
	Aliases:   []string{"wr"},
	Usage:     "write a raw register",
	ArgsUsage: "<register, e.g. 0x14> <value, e.g. 0x31>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected 2 arguments, got %d", c.NArg())
		}
		reg, err := parseByte(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "invalid register %q: %v", c.Args().Get(0), err)
		}
		value, err := parseByte(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "invalid value %q: %v", c.Args().Get(1), err)
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.WriteRegister(ctx, lm3549.Register(reg), value)
		if err != nil {
			return console.Exit(1, "error writing register: %s", console.Red(err))
		}
		console.PInfof(console.PictoCheck, "wrote %#02x to register %#02x", value, reg)
		return nil
	},
}

// parseByte accepts decimal and prefixed hex notation.
func parseByte(arg string) (byte, error) {
	n, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, err
	}
	return byte(n), nil
}
