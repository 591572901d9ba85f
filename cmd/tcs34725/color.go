package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/tcs34725"
	"github.com/mklimuk/tcs34725/adapter"
	"github.com/mklimuk/tcs34725/cmd/tcs34725/console"
	"github.com/mklimuk/tcs34725/i2c"
	"github.com/mklimuk/tcs34725/snsctx"
)

var busFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   "mcp2221",
		Usage:   "i2c adapter to use: mcp2221, generic or nanopi",
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Value:   "",
		Usage:   "i2c device path for the generic adapter",
	},
	&cli.IntFlag{
		Name:  "bus",
		Value: 0,
		Usage: "i2c bus number for the nanopi adapter",
	},
	&cli.StringFlag{
		Name:    "gain",
		Aliases: []string{"g"},
		Value:   "1x",
		Usage:   "analog gain: 1x, 4x, 16x or 60x",
	},
	&cli.StringFlag{
		Name:    "time",
		Aliases: []string{"t"},
		Value:   "2.4ms",
		Usage:   "integration time: 2.4ms, 24ms, 50ms, 101ms, 154ms or 700ms",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "dump bus traffic",
	},
}

func openBus(c *cli.Context) (tcs34725.I2CBus, error) {
	switch c.String("adapter") {
	case "nanopi":
		return i2c.NewNanoPiBus(c.Int("bus"))
	case "generic":
		return i2c.NewGenericBus(c.String("device"))
	default:
		a := adapter.NewMCP2221()
		err := a.Init()
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

func newSensor(c *cli.Context) (*tcs34725.TCS34725, tcs34725.I2CBus, error) {
	bus, err := openBus(c)
	if err != nil {
		return nil, nil, err
	}
	gain, err := tcs34725.ParseGain(c.String("gain"))
	if err != nil {
		return nil, nil, err
	}
	it, err := tcs34725.ParseIntegrationTime(c.String("time"))
	if err != nil {
		return nil, nil, err
	}
	sensor := tcs34725.New(bus, tcs34725.WithGain(gain), tcs34725.WithIntegrationTime(it))
	return sensor, bus, nil
}

func loadCalibration(path string) (tcs34725.CalibrationConstants, error) {
	cal := tcs34725.DefaultCalibration
	if path == "" {
		return cal, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cal, err
	}
	err = yaml.Unmarshal(raw, &cal)
	return cal, err
}

var colorCmd = cli.Command{
	Name:    "color",
	Aliases: []string{"c"},
	Usage:   "read color channels and derived values from the sensor",
	Subcommands: cli.Commands{
		&colorReadCmd,
		&colorRGBCmd,
		&colorLuxCmd,
		&colorCCTCmd,
		&colorCalibratedCmd,
		&colorCalibrateCmd,
	},
}

var colorReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "read raw RGBC channel counts",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "one-shot",
			Usage: "power the sensor up for a single cycle and shut it down again",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, bus, err := newSensor(c)
		if err != nil {
			return console.Exit(1, "could not initialize the sensor: %s", console.Red(err.Error()))
		}
		defer bus.Release(ctx)
		var sample tcs34725.RawSample
		if c.Bool("one-shot") {
			sample, err = sensor.GetRawChannelsOneShot(ctx)
		} else {
			sample, err = sensor.GetRawChannels(ctx)
		}
		if err != nil {
			return console.Exit(1, "could not read color channels: %s", console.Red(err.Error()))
		}
		console.Printf("red: %s, green: %s, blue: %s, clear: %s\n",
			console.Red(sample.R), console.Green(sample.G),
			console.Blue(sample.B), console.White(sample.C))
		return nil
	},
}

var colorRGBCmd = cli.Command{
	Name:  "rgb",
	Usage: "read clear-normalized 8 bit RGB components",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, bus, err := newSensor(c)
		if err != nil {
			return console.Exit(1, "could not initialize the sensor: %s", console.Red(err.Error()))
		}
		defer bus.Release(ctx)
		r, g, b, err := sensor.GetRGB(ctx)
		if err != nil {
			return console.Exit(1, "could not read color channels: %s", console.Red(err.Error()))
		}
		console.Printf("#%02X%02X%02X (%s, %s, %s)\n", uint8(r), uint8(g), uint8(b),
			console.Red(uint8(r)), console.Green(uint8(g)), console.Blue(uint8(b)))
		return nil
	},
}

var colorLuxCmd = cli.Command{
	Name:  "lux",
	Usage: "read illuminance in lux",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, bus, err := newSensor(c)
		if err != nil {
			return console.Exit(1, "could not initialize the sensor: %s", console.Red(err.Error()))
		}
		defer bus.Release(ctx)
		lux, err := sensor.GetLux(ctx)
		if err != nil {
			return console.Exit(1, "could not read illuminance: %s", console.Red(err.Error()))
		}
		console.Printf("illuminance: %s lux\n", console.White(lux))
		return nil
	},
}

var colorCCTCmd = cli.Command{
	Name:  "cct",
	Usage: "read correlated color temperature in kelvins",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "dn40",
			Usage: "use the DN40 method with IR compensation and saturation checks",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, bus, err := newSensor(c)
		if err != nil {
			return console.Exit(1, "could not initialize the sensor: %s", console.Red(err.Error()))
		}
		defer bus.Release(ctx)
		var cct uint16
		if c.Bool("dn40") {
			cct, err = sensor.GetColorTemperatureDN40(ctx)
		} else {
			cct, err = sensor.GetColorTemperature(ctx)
		}
		if err != nil {
			return console.Exit(1, "could not read color temperature: %s", console.Red(err.Error()))
		}
		if cct == 0 {
			console.Printf("color temperature: %s\n", console.Yellow("unreliable reading"))
			return nil
		}
		console.Printf("color temperature: %s K\n", console.White(cct))
		return nil
	},
}

var colorCalibratedCmd = cli.Command{
	Name:  "calibrated",
	Usage: "read channels scaled to sensitivity-corrected counts per 2.4ms at 1x gain",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "calibration",
			Usage: "yaml file with calibration constants",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		cal, err := loadCalibration(c.String("calibration"))
		if err != nil {
			return console.Exit(1, "could not load calibration constants: %s", console.Red(err.Error()))
		}
		return readCalibrated(c, cal)
	},
}

var colorCalibrateCmd = cli.Command{
	Name:  "calibrate",
	Usage: "review calibration constants, then perform a calibrated read with them",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "calibration",
			Usage: "yaml file with calibration constants",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		cal, err := loadCalibration(c.String("calibration"))
		if err != nil {
			return console.Exit(1, "could not load calibration constants: %s", console.Red(err.Error()))
		}
		raw, err := yaml.Marshal(cal)
		if err != nil {
			return console.Exit(1, "could not render calibration constants: %s", console.Red(err.Error()))
		}
		console.Printf("%s", string(raw))
		answer, err := console.YesOrNo("apply these constants?")
		if err != nil {
			return console.Exit(1, "could not read answer: %s", console.Red(err.Error()))
		}
		if answer != console.Yes {
			return nil
		}
		return readCalibrated(c, cal)
	},
}

func readCalibrated(c *cli.Context, cal tcs34725.CalibrationConstants) error {
	ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
	sensor, bus, err := newSensor(c)
	if err != nil {
		return console.Exit(1, "could not initialize the sensor: %s", console.Red(err.Error()))
	}
	defer bus.Release(ctx)
	sensor.SetCalibration(cal)
	sample, err := sensor.GetCalibratedChannels(ctx)
	if err != nil {
		return console.Exit(1, "could not read calibrated channels: %s", console.Red(err.Error()))
	}
	console.Printf("red: %s, green: %s, blue: %s, clear: %s\n",
		console.Red(fmt.Sprintf("%.2f", sample.R)), console.Green(fmt.Sprintf("%.2f", sample.G)),
		console.Blue(fmt.Sprintf("%.2f", sample.B)), console.White(fmt.Sprintf("%.2f", sample.C)))
	return nil
}
