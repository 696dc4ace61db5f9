// submodule cmd contains command definitions
package main

import (
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songsmith/internal/view"
)

// serveCommand runs the companion backend
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the backend that talks to Spotify",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides [server] host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (overrides [server] port)",
			},
		},
		Action: r.Serve,
	}
}

// loginCommand authorizes through the backend and opens the dashboard
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in with Spotify in the browser",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save the tokens to the .env file for later commands",
			},
			&cli.BoolFlag{
				Name:  "no-dashboard",
				Usage: "Exit after logging in instead of opening the dashboard",
			},
		},
		Action: r.Login,
	}
}

// dashboardCommand launches the interactive dashboard
func dashboardCommand(r *Runner) *cli.Command {
	flags := append(tokenFlags(), &cli.StringFlag{
		Name:  "tab",
		Usage: "Tab to open on: overview, artists, tracks, recent or playlists",
		Value: view.Overview.String(),
	})
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"tui"},
		Usage:   "Browse your music taste interactively",
		Flags:   flags,
		Action:  r.Dashboard,
	}
}

// tasteCommand prints the music taste report
func tasteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "taste",
		Usage: "Print your profile and music taste",
		Flags: append(tokenFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown or json",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "range",
				Aliases: []string{"r"},
				Usage:   "Time range: short, medium or long",
				Value:   "medium",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum entries per list",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Save a refreshed access token to the .env file",
			},
		),
		Action: r.Taste,
	}
}

// logoutCommand forgets saved tokens
func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Remove saved tokens",
		Action: r.Logout,
	}
}

// configCommand manages the configuration file
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration file operations",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a config.toml from the defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "current",
						Usage: "Write the effective configuration, including environment overrides",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}

// tokenFlags seeds the session from flags or the environment.
func tokenFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "access-token",
			Usage:   "Spotify access token",
			Sources: cli.EnvVars(accessTokenEnv),
		},
		&cli.StringFlag{
			Name:    "refresh-token",
			Usage:   "Spotify refresh token",
			Sources: cli.EnvVars(refreshTokenEnv),
		},
	}
}
