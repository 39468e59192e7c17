package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/1F47E/go-dotreel/pkg/config"
	"github.com/1F47E/go-dotreel/pkg/core"
	"github.com/1F47E/go-dotreel/pkg/logger"
	"github.com/1F47E/go-dotreel/pkg/metrics"
	"github.com/1F47E/go-dotreel/pkg/player"
)

var app = cli.NewApp()
var log = logger.Log

func init() {
	app.Name = "dotreel"
	app.Usage = "A braille video player for the terminal"
	app.UsageText = "dotreel [flags] [command] [filename]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Value: config.PathConfig, Usage: "TOML config file"},
		cli.StringFlag{Name: "dict", Usage: "zstd dictionary, shared by encode and play"},
		cli.StringFlag{Name: "frames", Usage: "directory of numbered png frames"},
		cli.StringFlag{Name: "audio", Usage: "audio track played alongside, empty to disable"},
		cli.IntFlag{Name: "fps", Usage: "frames per second"},
		cli.IntFlag{Name: "threshold", Usage: "luminance cut-off 0..255"},
		cli.BoolFlag{Name: "invert", Usage: "light dark pixels instead of bright ones"},
		cli.StringFlag{Name: "metrics-addr", Usage: "serve prometheus metrics on this address"},
		cli.BoolFlag{Name: "allow-legacy", Usage: "play containers without a tagged header"},
		cli.BoolFlag{Name: "no-stats", Usage: "hide the frame counter overlay"},
	}
	app.Action = play
	app.Commands = []cli.Command{
		{
			Name:    "encode",
			Aliases: []string{"e"},
			Usage:   "Encode the frames dir into a container",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "count, n", Usage: "number of frames, 0 counts the frames dir"},
			},
			Action: func(c *cli.Context) error {
				return run(c, func(cr *core.Core, cfg config.Config) error {
					return cr.Compress(filename(c, cfg.Container), c.Int("count"))
				})
			},
		},
		{
			Name:    "play",
			Aliases: []string{"decode", "d"},
			Usage:   "Play a container in the terminal",
			Action:  play,
		},
		{
			Name:  "dict",
			Usage: "Train a zstd dictionary on the frames dir",
			Action: func(c *cli.Context) error {
				return run(c, func(cr *core.Core, _ config.Config) error {
					return cr.TrainDictionary()
				})
			},
		},
		{
			Name:    "extract",
			Aliases: []string{"x"},
			Usage:   "Split a video into frames and audio with ffmpeg",
			Action: func(c *cli.Context) error {
				return run(c, func(cr *core.Core, _ config.Config) error {
					f := c.Args().Get(0)
					if f == "" {
						return fmt.Errorf("Filename is required")
					}
					return cr.Extract(f)
				})
			},
		},
	}
}

func play(c *cli.Context) error {
	return run(c, func(cr *core.Core, cfg config.Config) error {
		_, err := cr.Decode(filename(c, cfg.Container))
		return err
	})
}

// filename is the first argument, or the configured container.
func filename(c *cli.Context, fallback string) string {
	if f := c.Args().Get(0); f != "" {
		return f
	}
	return fallback
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return cfg, err
	}
	if c.GlobalIsSet("dict") {
		cfg.Dictionary = c.GlobalString("dict")
	}
	if c.GlobalIsSet("frames") {
		cfg.FramesDir = c.GlobalString("frames")
	}
	if c.GlobalIsSet("audio") {
		cfg.Audio = c.GlobalString("audio")
	}
	if c.GlobalIsSet("fps") {
		cfg.FPS = c.GlobalInt("fps")
	}
	if c.GlobalIsSet("threshold") {
		cfg.Threshold = c.GlobalInt("threshold")
	}
	if c.GlobalIsSet("metrics-addr") {
		cfg.MetricsAddr = c.GlobalString("metrics-addr")
	}
	cfg.Invert = cfg.Invert || c.GlobalBool("invert")
	cfg.AllowLegacy = cfg.AllowLegacy || c.GlobalBool("allow-legacy")
	if c.GlobalBool("no-stats") {
		cfg.ShowStats = false
	}
	return cfg, cfg.Validate()
}

func run(c *cli.Context, fn func(*core.Core, config.Config) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.LogLevel != "" {
		if err := logger.SetLevel(cfg.LogLevel); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reg prometheus.Registerer
	if cfg.MetricsAddr != "" {
		r := prometheus.NewRegistry()
		reg = r
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, r); err != nil {
				log.Warnf("metrics server: %v", err)
			}
		}()
	}

	err = fn(core.NewCore(ctx, cfg, metrics.New(reg)), cfg)
	// whatever failed after a signal failed because of it
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// stopped reports a run ended by a signal, which is not a failure.
func stopped(err error) bool {
	return errors.Is(err, context.Canceled)
}

func main() {
	// log.Fatal exits without running defers
	logrus.RegisterExitHandler(func() { player.RestoreCursor(os.Stdout) })

	err := app.Run(os.Args)
	if stopped(err) {
		log.Info("Stopped")
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}
