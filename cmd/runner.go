package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songsmith/internal/services"
	"github.com/desertthunder/songsmith/internal/session"
	"github.com/desertthunder/songsmith/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	envPath     string
	backend     *services.BackendClient
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
	newStore    func() (session.Store, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	EnvPath    string
	Backend    *services.BackendClient
	Logger     *log.Logger
	Output     io.Writer
	Browser    func(string) error           // defaults to shared.OpenBrowser
	Store      func() (session.Store, error) // defaults to the [session] driver
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.EnvPath == "" {
		opts.EnvPath = ".env"
	}
	if opts.Backend == nil {
		opts.Backend = services.NewBackendClient(opts.Config.Backend.URL, nil)
	}
	if opts.Browser == nil {
		opts.Browser = shared.OpenBrowser
	}

	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		envPath:     opts.EnvPath,
		backend:     opts.Backend,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.Browser,
		newStore:    opts.Store,
	}
	if r.newStore == nil {
		r.newStore = func() (session.Store, error) { return session.NewStore(r.config.Session.Driver) }
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, loginCommand, dashboardCommand, tasteCommand, logoutCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by later actions.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// openSession creates an empty store and seeds it with any tokens passed to cmd.
func (r *Runner) openSession(cmd *cli.Command) (session.Store, error) {
	store, err := r.newStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	if cmd != nil {
		if err := store.Set(cmd.String("access-token"), cmd.String("refresh-token")); err != nil {
			return nil, fmt.Errorf("failed to seed session: %w", err)
		}
	}
	return store, nil
}
