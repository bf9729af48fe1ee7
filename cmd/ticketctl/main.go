// Command ticketctl drives the platform ticket API from a terminal and can
// archive ticket snapshots into Postgres.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spec-kit/ticket-console/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

const usage = `ticketctl talks to the ticket platform API.

Usage:
  ticketctl [global flags] <command> [flags] [args]

Commands:
  list          list tickets (filters: --status, --priority, --category, ...)
  get <id>      show one ticket
  code <code>   look a ticket up by its ticket code
  create        open a ticket
  assign <id>   assign a ticket to an agent
  escalate <id> escalate a ticket
  comment <id>  add a comment to a ticket
  categories    list ticket categories, or show one with an id argument
  export        copy tickets from the API into the Postgres archive
  archived      list tickets held in the Postgres archive

Global flags:
`

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	g, rest, err := parseGlobal(cfg, args, stderr)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		printUsage(stderr)
		return errUsage
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", rest[0])
	}

	env, err := newEnv(cfg, g, stdout, stderr)
	if err != nil {
		return err
	}
	defer env.close()

	return cmd(ctx, env, rest[1:])
}
