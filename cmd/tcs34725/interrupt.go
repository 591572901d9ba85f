package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/tcs34725/cmd/tcs34725/console"
	"github.com/mklimuk/tcs34725/snsctx"
)

var interruptCmd = cli.Command{
	Name:    "interrupt",
	Aliases: []string{"int"},
	Usage:   "manage the clear channel threshold interrupt",
	Subcommands: cli.Commands{
		&interruptOnCmd,
		&interruptOffCmd,
		&interruptClearCmd,
		&interruptLimitsCmd,
	},
}

var interruptOnCmd = cli.Command{
	Name:  "on",
	Usage: "enable interrupt generation",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		return setInterrupt(c, true)
	},
}

var interruptOffCmd = cli.Command{
	Name:  "off",
	Usage: "disable interrupt generation",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		return setInterrupt(c, false)
	},
}

func setInterrupt(c *cli.Context, on bool) error {
	ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
	sensor, bus, err := newSensor(c)
	if err != nil {
		return console.Exit(1, "could not initialize the sensor: %s", console.Red(err.Error()))
	}
	defer bus.Release(ctx)
	err = sensor.SetInterrupt(ctx, on)
	if err != nil {
		return console.Exit(1, "could not update interrupt state: %s", console.Red(err.Error()))
	}
	if on {
		console.Info("interrupt enabled")
	} else {
		console.Info("interrupt disabled")
	}
	return nil
}

var interruptClearCmd = cli.Command{
	Name:  "clear",
	Usage: "acknowledge a pending interrupt",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, bus, err := newSensor(c)
		if err != nil {
			return console.Exit(1, "could not initialize the sensor: %s", console.Red(err.Error()))
		}
		defer bus.Release(ctx)
		err = sensor.ClearInterrupt(ctx)
		if err != nil {
			return console.Exit(1, "could not clear the interrupt: %s", console.Red(err.Error()))
		}
		console.Info("interrupt cleared")
		return nil
	},
}

var interruptLimitsCmd = cli.Command{
	Name:      "limits",
	Usage:     "set the clear channel low and high thresholds",
	ArgsUsage: "<low> <high>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected two arguments: <low> <high>")
		}
		low, err := strconv.ParseUint(c.Args().Get(0), 0, 16)
		if err != nil {
			return console.Exit(1, "invalid low threshold %s: %s", console.Bold(c.Args().Get(0)), console.Red(err.Error()))
		}
		high, err := strconv.ParseUint(c.Args().Get(1), 0, 16)
		if err != nil {
			return console.Exit(1, "invalid high threshold %s: %s", console.Bold(c.Args().Get(1)), console.Red(err.Error()))
		}
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, bus, err := newSensor(c)
		if err != nil {
			return console.Exit(1, "could not initialize the sensor: %s", console.Red(err.Error()))
		}
		defer bus.Release(ctx)
		err = sensor.SetInterruptLimits(ctx, uint16(low), uint16(high))
		if err != nil {
			return console.Exit(1, "could not set interrupt limits: %s", console.Red(err.Error()))
		}
		console.Infof("interrupt limits set to [%d, %d]", low, high)
		return nil
	},
}
