package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/client"
	"github.com/spec-kit/ticket-console/internal/config"
	"github.com/spec-kit/ticket-console/internal/observability"
)

var errUsage = errors.New("missing command")

type globalFlags struct {
	apiURL  string
	token   string
	verbose bool
}

// staticToken serves the --token flag as the client's bearer token.
type staticToken string

func (s staticToken) Get(context.Context) (string, error) { return string(s), nil }

type env struct {
	cfg    *config.Config
	api    *client.Client
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func globalFlagSet(cfg *config.Config, g *globalFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("ticketctl", pflag.ContinueOnError)
	fs.StringVar(&g.apiURL, "api", cfg.API.BaseURL, "platform API base URL")
	fs.StringVar(&g.token, "token", "", "bearer token (default $TICKETCTL_TOKEN)")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "log API calls to stderr")
	fs.SetInterspersed(false)
	return fs
}

func parseGlobal(cfg *config.Config, args []string, stderr io.Writer) (globalFlags, []string, error) {
	var g globalFlags
	fs := globalFlagSet(cfg, &g)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(stderr)
			return g, nil, errUsage
		}
		return g, nil, err
	}
	return g, fs.Args(), nil
}

func printUsage(w io.Writer) {
	var g globalFlags
	fs := globalFlagSet(&config.Config{}, &g)
	fmt.Fprint(w, usage)
	fmt.Fprint(w, fs.FlagUsages())
}

func newEnv(cfg *config.Config, g globalFlags, stdout, stderr io.Writer) (*env, error) {
	logger, err := cliLogger(cfg, g.verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	token := g.token
	if token == "" {
		token = os.Getenv("TICKETCTL_TOKEN")
	}

	api := client.New(g.apiURL,
		client.WithTokenSource(staticToken(token)),
		client.WithLogger(logger),
	)
	return &env{cfg: cfg, api: api, logger: logger, stdout: stdout, stderr: stderr}, nil
}

// cliLogger honors LOG_LEVEL but always writes to stderr so stdout stays
// parseable JSON. --verbose forces debug.
func cliLogger(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	logCfg := cfg.Logger
	logCfg.Output = "stderr"
	if verbose {
		logCfg.Level = "debug"
	}
	app := cfg.App
	if app.Name == "" {
		app.Name = "ticketctl"
	}
	return observability.NewLogger(logCfg, app)
}

func (e *env) close() {
	_ = e.logger.Sync()
}

func (e *env) print(v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newCommandFlags returns a flag set for one sub-command.
func newCommandFlags(e *env, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("ticketctl "+name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func requireArg(fs *pflag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one %s argument", fs.Name(), what)
	}
	return fs.Arg(0), nil
}
