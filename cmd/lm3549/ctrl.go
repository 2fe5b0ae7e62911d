package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/lm3549"
	"github.com/mklimuk/lm3549/cmd/lm3549/console"
)

var ctrlCmd = cli.Command{
	Name: "ctrl",
	Subcommands: []*cli.Command{
		&ctrlStatusCmd,
		&ctrlSoftStartCmd,
		&ctrlTimeoutCmd,
		&ctrlPWMCmd,
		&ctrlShutdownCmd,
		&ctrlResetCmd,
	},
}

var ctrlStatusCmd = cli.Command{
	Name:  "status",
	Usage: "read and decode the control register",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		ctrl, err := dev.ReadCtrl(ctx)
		if err != nil {
			return console.Exit(1, "error reading control register: %s", console.Red(err))
		}
		printCtrl(ctrl)
		return nil
	},
}

func printCtrl(ctrl lm3549.Ctrl) {
	console.Printf("soft start:  %s\n", console.White(ctrl.SoftStart))
	console.Printf("timeout:     %s\n", console.White(ctrl.Timeout))
	console.Printf("fader:       %s\n", onOff(ctrl.FaderEnabled))
	console.Printf("pwm input:   %s\n", onOff(ctrl.PWMEnabled))
}

func onOff(b bool) string {
	if b {
		return console.Green("enabled")
	}
	return console.Yellow("disabled")
}

var ctrlSoftStartCmd = cli.Command{
	Name:      "softstart",
	Usage:     "set the soft start ramp",
	ArgsUsage: "<none|500ms|1s|2s>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		ss, err := parseSoftStart(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.SetSoftStart(ctx, ss)
		if err != nil {
			return console.Exit(1, "error setting soft start: %s", console.Red(err))
		}
		console.PInfof(console.PictoBulb, "soft start set to %s", console.White(ss))
		return nil
	},
}

var ctrlTimeoutCmd = cli.Command{
	Name:      "timeout",
	Usage:     "set the standby timeout",
	ArgsUsage: "<125ms|250ms|500ms|1s>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		t, err := parseTimeout(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "%v", err)
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.SetStandbyTimeout(ctx, t)
		if err != nil {
			return console.Exit(1, "error setting timeout: %s", console.Red(err))
		}
		console.PInfof(console.PictoBulb, "standby timeout set to %s", console.White(t))
		return nil
	},
}

var ctrlPWMCmd = cli.Command{
	Name:      "pwm",
	Usage:     "enable or disable brightness control from the PWM input",
	ArgsUsage: "<on|off>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		var enabled bool
		switch c.Args().Get(0) {
		case "on":
			enabled = true
		case "off":
		default:
			return console.Exit(1, "invalid argument %q, expected on or off", c.Args().Get(0))
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.EnablePWMInput(ctx, enabled)
		if err != nil {
			return console.Exit(1, "error switching pwm input: %s", console.Red(err))
		}
		console.PInfof(console.PictoBulb, "pwm input %s", onOff(enabled))
		return nil
	},
}

var ctrlShutdownCmd = cli.Command{
	Name:  "shutdown",
	Usage: "clear the control register and put the device in standby",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.Shutdown(ctx)
		if err != nil {
			return console.Exit(1, "error shutting down: %s", console.Red(err))
		}
		console.PInfof(console.PictoCheck, "device shut down")
		return nil
	},
}

var ctrlResetCmd = cli.Command{
	Name:  "reset",
	Usage: "recall EEPROM defaults into the register file",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.Reset(ctx)
		if err != nil {
			return console.Exit(1, "error resetting device: %s", console.Red(err))
		}
		console.PInfof(console.PictoCheck, "device reset to stored defaults")
		return nil
	},
}
