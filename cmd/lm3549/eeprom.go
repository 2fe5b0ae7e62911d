package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm3549/cmd/lm3549/console"
)

var eepromCmd = cli.Command{
	Name: "eeprom",
	Subcommands: []*cli.Command{
		&eepromStoreCmd,
		&eepromRecallCmd,
	},
}

var eepromStoreCmd = cli.Command{
	Name:  "store",
	Usage: "burn the current register file into EEPROM defaults",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip confirmation"},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("this writes the non-volatile memory of the chip, continue?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.Infof("aborted")
				return nil
			}
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.StoreToEEPROM(ctx)
		if err != nil {
			return console.Exit(1, "error storing to eeprom: %s", console.Red(err))
		}
		console.PInfof(console.PictoCheck, "register file stored to eeprom")
		return nil
	},
}

var eepromRecallCmd = cli.Command{
	Name:  "recall",
	Usage: "reload the register file from EEPROM defaults",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.Reset(ctx)
		if err != nil {
			return console.Exit(1, "error recalling eeprom: %s", console.Red(err))
		}
		console.PInfof(console.PictoCheck, "register file recalled from eeprom")
		return nil
	},
}
