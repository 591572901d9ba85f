package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/tcs34725/adapter"
	"github.com/mklimuk/tcs34725/cmd/tcs34725/console"
	"github.com/mklimuk/tcs34725/snsctx"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "interact with the MCP2221 usb adapter",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name:  "status",
	Usage: "dump the adapter's i2c engine status",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "dump bus traffic",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		a := adapter.NewMCP2221()
		err := a.Init()
		if err != nil {
			return console.Exit(1, "could not initialize the adapter: %s", console.Red(err.Error()))
		}
		status, err := a.Status(ctx)
		if err != nil {
			return console.Exit(1, "could not read adapter status: %s", console.Red(err.Error()))
		}
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		err = enc.Encode(status)
		if err != nil {
			return console.Exit(1, "could not render adapter status: %s", console.Red(err.Error()))
		}
		return nil
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and release the i2c bus",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "dump bus traffic",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		a := adapter.NewMCP2221()
		err := a.Init()
		if err != nil {
			return console.Exit(1, "could not initialize the adapter: %s", console.Red(err.Error()))
		}
		status, err := a.ReleaseBus(ctx)
		if err != nil {
			return console.Exit(1, "could not release the bus: %s", console.Red(err.Error()))
		}
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		err = enc.Encode(status)
		if err != nil {
			return console.Exit(1, "could not render adapter status: %s", console.Red(err.Error()))
		}
		return nil
	},
}
