package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/lm3549"
	"github.com/mklimuk/lm3549/cmd/lm3549/console"
)

// profile is a declarative device configuration applied in one shot.
type profile struct {
	Banks      []bankProfile  `yaml:"banks"`
	SoftStart  string         `yaml:"soft_start,omitempty"`
	Timeout    string         `yaml:"timeout,omitempty"`
	Limits     *limitsProfile `yaml:"limits,omitempty"`
	Fader      *int           `yaml:"fader,omitempty"`
	ActiveBank *int           `yaml:"active_bank,omitempty"`
}

type bankProfile struct {
	Bank  int    `yaml:"bank"`
	Red   uint16 `yaml:"red"`
	Green uint16 `yaml:"green"`
	Blue  uint16 `yaml:"blue"`
}

type limitsProfile struct {
	Positive string `yaml:"positive"`
	Negative string `yaml:"negative"`
}

var applyCmd = cli.Command{
	Name:      "apply",
	Usage:     "apply a yaml configuration profile",
	ArgsUsage: "<profile.yaml>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		raw, err := os.ReadFile(c.Args().Get(0))
		if err != nil {
			return console.Exit(1, "error reading profile: %s", console.Red(err))
		}
		var p profile
		err = yaml.Unmarshal(raw, &p)
		if err != nil {
			return console.Exit(1, "error parsing profile: %s", console.Red(err))
		}
		dev, ctx, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer cleanup()
		err = applyProfile(ctx, dev, p)
		if err != nil {
			return console.Exit(1, "error applying profile: %s", console.Red(err))
		}
		console.PInfof(console.PictoCheck, "profile %s applied", console.White(c.Args().Get(0)))
		return nil
	},
}

// applyProfile pushes every section of the profile to the device, currents
// first so a bank switch at the end activates a fully programmed bank.
func applyProfile(ctx context.Context, dev lm3549.Controller, p profile) error {
	for _, b := range p.Banks {
		if b.Bank < 0 || b.Bank > 2 {
			return fmt.Errorf("invalid bank %d in profile, expected 0, 1 or 2", b.Bank)
		}
		err := dev.SetBankCurrents(ctx, lm3549.Bank(b.Bank), b.Red, b.Green, b.Blue)
		if err != nil {
			return fmt.Errorf("bank %d currents: %w", b.Bank, err)
		}
	}
	if p.Limits != nil {
		pos, err := parsePosLimit(p.Limits.Positive)
		if err != nil {
			return err
		}
		neg, err := parseNegLimit(p.Limits.Negative)
		if err != nil {
			return err
		}
		err = dev.SetCurrentLimits(ctx, pos, neg)
		if err != nil {
			return fmt.Errorf("current limits: %w", err)
		}
	}
	if p.SoftStart != "" {
		ss, err := parseSoftStart(p.SoftStart)
		if err != nil {
			return err
		}
		err = dev.SetSoftStart(ctx, ss)
		if err != nil {
			return fmt.Errorf("soft start: %w", err)
		}
	}
	if p.Timeout != "" {
		t, err := parseTimeout(p.Timeout)
		if err != nil {
			return err
		}
		err = dev.SetStandbyTimeout(ctx, t)
		if err != nil {
			return fmt.Errorf("standby timeout: %w", err)
		}
	}
	if p.Fader != nil {
		if *p.Fader < 0 || *p.Fader > 255 {
			return fmt.Errorf("invalid fader level %d in profile, expected 0..255", *p.Fader)
		}
		err := dev.SetFader(ctx, byte(*p.Fader))
		if err != nil {
			return fmt.Errorf("fader level: %w", err)
		}
		err = dev.EnableFader(ctx, true)
		if err != nil {
			return fmt.Errorf("fader enable: %w", err)
		}
	}
	if p.ActiveBank != nil {
		if *p.ActiveBank < 0 || *p.ActiveBank > 2 {
			return fmt.Errorf("invalid active bank %d in profile, expected 0, 1 or 2", *p.ActiveBank)
		}
		err := dev.SelectBank(ctx, lm3549.Bank(*p.ActiveBank))
		if err != nil {
			return fmt.Errorf("active bank: %w", err)
		}
	}
	return nil
}
