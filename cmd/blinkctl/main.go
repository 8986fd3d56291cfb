package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "blinkctl",
		Usage: "Solana blink actions service CLI",
		Description: `A command-line tool for exercising and debugging the blink actions service.

Use this CLI to fetch action metadata, build unsigned transactions, decode them,
and follow the action event stream.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			// Server utility commands
			{
				Name:  "server",
				Usage: "Server utility commands",
				Subcommands: []*cli.Command{
					healthCommand(),
					versionCommand(),
				},
			},
			// Action commands (HTTP API)
			{
				Name:  "actions",
				Usage: "Fetch action metadata and build transactions",
				Subcommands: []*cli.Command{
					discoverCommand(),
					metadataCommand(),
					buildCommand(),
				},
			},
			// Transaction inspection commands
			{
				Name:  "tx",
				Usage: "Transaction inspection commands",
				Subcommands: []*cli.Command{
					decodeCommand(),
				},
			},
			// NATS action event commands
			{
				Name:  "events",
				Usage: "Action event stream commands",
				Subcommands: []*cli.Command{
					subscribeCommand(),
				},
			},
		},
		// Global flags available to all commands
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server-url",
				Usage:   "Actions server URL",
				EnvVars: []string{"SERVER_URL"},
				Value:   "http://localhost:3000",
			},
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "NATS server URL",
				EnvVars: []string{"NATS_URL"},
				Value:   "nats://localhost:4222",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output in JSON format",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq filter applied to JSON output (implies --json)",
			},
		},
	}
}
