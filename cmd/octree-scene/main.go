// Package main runs a headless scene of moving boxes against the octree and reports how the index behaves.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.viam.com/octree/scene"
)

const (
	// Flags.
	flagConfig     = "config"
	flagDebug      = "debug"
	flagObjects    = "objects"
	flagFrames     = "frames"
	flagRays       = "rays"
	flagSeed       = "seed"
	flagBranchSize = "branch-size"
	flagWorldSize  = "world-size"
	flagHistogram  = "histogram"
)

func main() {
	var logger golog.Logger

	app := &cli.App{
		Name:  "octree-scene",
		Usage: "simulate moving boxes indexed by an octree",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load scene configuration from JSON `FILE`",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.IntFlag{Name: flagObjects, Usage: "number of objects to spawn"},
			&cli.IntFlag{Name: flagFrames, Usage: "number of frames to simulate"},
			&cli.IntFlag{Name: flagRays, Usage: "picking rays cast per frame"},
			&cli.Int64Flag{Name: flagSeed, Usage: "random seed"},
			&cli.IntFlag{Name: flagBranchSize, Usage: "items a node holds before subdividing"},
			&cli.Float64Flag{Name: flagWorldSize, Usage: "edge length of the cubic world centered on the origin"},
			&cli.BoolFlag{Name: flagHistogram, Usage: "print the node and item counts per depth"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = golog.NewDebugLogger("octree-scene")
			} else {
				logger = golog.NewDevelopmentLogger("octree-scene")
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return run(c, logger)
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		if logger == nil {
			logger = zap.NewNop().Sugar()
		}
		logger.Fatal(err)
	}
}

func run(c *cli.Context, logger golog.Logger) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	s, err := scene.New(*cfg, clock.New(), logger)
	if err != nil {
		return err
	}
	summary, err := s.Run(c.Context)
	if err != nil {
		return errors.Wrapf(err, "scene stopped after %d frames", summary.Frames)
	}

	fmt.Fprintln(c.App.Writer, summary)
	if c.Bool(flagHistogram) {
		fmt.Fprintln(c.App.Writer, s.DepthHistogram())
	}
	return nil
}

func loadConfig(c *cli.Context) (*scene.Config, error) {
	cfg := scene.DefaultConfig()
	if path := c.String(flagConfig); path != "" {
		//nolint:gosec
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config %q", path)
		}
		var attrs map[string]interface{}
		if err := json.Unmarshal(raw, &attrs); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %q", path)
		}
		decoded, err := scene.ConfigFromAttributes(attrs)
		if err != nil {
			return nil, err
		}
		cfg = *decoded
	}

	if c.IsSet(flagObjects) {
		cfg.Objects = c.Int(flagObjects)
	}
	if c.IsSet(flagFrames) {
		cfg.Frames = c.Int(flagFrames)
	}
	if c.IsSet(flagRays) {
		cfg.Rays = c.Int(flagRays)
	}
	if c.IsSet(flagSeed) {
		cfg.Seed = c.Int64(flagSeed)
	}
	if c.IsSet(flagBranchSize) {
		cfg.Octree.BranchSize = c.Int(flagBranchSize)
	}
	if c.IsSet(flagWorldSize) {
		half := c.Float64(flagWorldSize) / 2
		cfg.Octree.WorldMin = r3.Vector{X: -half, Y: -half, Z: -half}
		cfg.Octree.WorldMax = r3.Vector{X: half, Y: half, Z: half}
	}

	var err error
	if c.IsSet(flagBranchSize) && cfg.Octree.BranchSize == 0 {
		err = multierr.Append(err, errors.Errorf("--%s must be positive", flagBranchSize))
	}
	if c.IsSet(flagWorldSize) && c.Float64(flagWorldSize) <= 0 {
		err = multierr.Append(err, errors.Errorf("--%s must be positive", flagWorldSize))
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
