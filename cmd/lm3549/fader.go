package main

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm3549/cmd/lm3549/console"
)

var faderCmd = cli.Command{
	Name: "fader",
	Subcommands: []*cli.Command{
		&faderSetCmd,
		&faderEnableCmd,
		&faderDisableCmd,
	},
}

var faderSetCmd = cli.Command{
	Name:      "set",
	Usage:     "set the fader level",
	ArgsUsage: "<level 0-255>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		level, err := strconv.Atoi(c.Args().Get(0))
		if err != nil || level < 0 || level > 255 {
			return console.Exit(1, "invalid fader level %q, expected 0..255", c.Args().Get(0))
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.SetFader(ctx, byte(level))
		if err != nil {
			return console.Exit(1, "error setting fader level: %s", console.Red(err))
		}
		console.PInfof(console.PictoBulb, "fader level set to %s", console.White(level))
		return nil
	},
}

var faderEnableCmd = cli.Command{
	Name:  "enable",
	Usage: "route brightness control through the fader register",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		return switchFader(c, true)
	},
}

var faderDisableCmd = cli.Command{
	Name:  "disable",
	Usage: "detach brightness control from the fader register",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		return switchFader(c, false)
	},
}

func switchFader(c *cli.Context, enabled bool) error {
	dev, ctx, cleanup, err := openDevice(c)
	if err != nil {
		return console.Exit(1, "adapter initialization error: %s", console.Red(err))
	}
	defer cleanup()
	err = dev.EnableFader(ctx, enabled)
	if err != nil {
		return console.Exit(1, "error switching fader: %s", console.Red(err))
	}
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	console.PInfof(console.PictoBulb, "fader %s", console.White(state))
	return nil
}
