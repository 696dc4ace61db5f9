package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songsmith/internal/shared"
)

// ConfigInit writes the default configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if !cmd.IsSet("config") && r.configPath != "" {
		path = r.configPath
	}
	if cmd.Bool("current") {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: config file already exists at %s", shared.ErrInvalidArgument, path)
		}
		if err := shared.SaveConfig(path, r.config); err != nil {
			return err
		}
	} else if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Wrote %s\nSet [credentials.spotify] before running `songsmith serve`.\n", path)
}
