package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/brojonat/blinkshop/client"
	"github.com/brojonat/blinkshop/service/actions"
	"github.com/urfave/cli/v2"
)

func discoverCommand() *cli.Command {
	return &cli.Command{
		Name:  "discover",
		Usage: "Fetch the actions.json discovery document",
		Action: func(c *cli.Context) error {
			cl := client.NewClient(c.String("server-url"), nil, cliLogger())
			doc, err := cl.Discover(c.Context)
			if err != nil {
				return fmt.Errorf("failed to fetch discovery document: %w", err)
			}

			if jsonOutput(c) {
				return printJSON(c, doc)
			}

			for _, rule := range doc.Rules {
				fmt.Fprintf(c.App.Writer, "%-12s -> %s\n", rule.PathPattern, rule.APIPath)
			}
			return nil
		},
	}
}

func metadataCommand() *cli.Command {
	return &cli.Command{
		Name:      "metadata",
		Usage:     "Fetch the metadata of an action",
		ArgsUsage: "ACTION (tip or checkout)",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("action is required")
			}
			action := c.Args().Get(0)

			cl := client.NewClient(c.String("server-url"), nil, cliLogger())
			meta, err := cl.Metadata(c.Context, action)
			if err != nil {
				return fmt.Errorf("failed to fetch metadata: %w", err)
			}

			if jsonOutput(c) {
				return printJSON(c, meta)
			}

			printMetadata(c, meta)
			return nil
		},
	}
}

func printMetadata(c *cli.Context, meta *actions.ActionGetResponse) {
	w := c.App.Writer
	fmt.Fprintf(w, "Title:       %s\n", meta.Title)
	fmt.Fprintf(w, "Description: %s\n", meta.Description)
	fmt.Fprintf(w, "Label:       %s\n", meta.Label)
	if meta.Links == nil {
		return
	}
	for _, link := range meta.Links.Actions {
		fmt.Fprintf(w, "\n[%s] %s\n", link.Label, link.Href)
		for _, p := range link.Parameters {
			required := ""
			if p.Required {
				required = " (required)"
			}
			fmt.Fprintf(w, "  %-8s %s%s\n", p.Name, p.Label, required)
		}
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Build an unsigned transaction for an action",
		ArgsUsage: "ACTION (tip or checkout)",
		Description: `POST to an action and print the unsigned transaction the server returns.

Example:
  blinkctl actions build checkout --account <PUBKEY> -p sku=coffee -p qty=2 --decode`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "account",
				Aliases:  []string{"a"},
				Usage:    "Payer account (base58 public key)",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "param",
				Aliases: []string{"p"},
				Usage:   "Action query parameter as key=value (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "skip-balance-check",
				Usage: "Ask the server not to verify the payer's balance",
			},
			&cli.BoolFlag{
				Name:    "decode",
				Aliases: []string{"d"},
				Usage:   "Decode the returned transaction",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("action is required")
			}
			action := c.Args().Get(0)

			params, err := parseParams(c.StringSlice("param"))
			if err != nil {
				return err
			}
			if c.Bool("skip-balance-check") {
				params.Set("skip_balance_check", "true")
			}

			cl := client.NewClient(c.String("server-url"), nil, cliLogger())
			resp, err := cl.Post(c.Context, action, c.String("account"), params)
			if err != nil {
				return fmt.Errorf("failed to build %s: %w", action, err)
			}

			if !c.Bool("decode") {
				if jsonOutput(c) {
					return printJSON(c, resp)
				}
				fmt.Fprintf(c.App.Writer, "Message:     %s\n", resp.Message)
				fmt.Fprintf(c.App.Writer, "Transaction: %s\n", resp.Transaction)
				return nil
			}

			summary, err := decodeTransaction(resp.Transaction)
			if err != nil {
				return err
			}
			if jsonOutput(c) {
				return printJSON(c, map[string]interface{}{
					"message":     resp.Message,
					"transaction": resp.Transaction,
					"summary":     summary,
				})
			}
			fmt.Fprintf(c.App.Writer, "Message:     %s\n", resp.Message)
			printSummary(c, summary)
			return nil
		},
	}
}

// parseParams turns key=value pairs into query parameters.
func parseParams(pairs []string) (url.Values, error) {
	params := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q: expected key=value", pair)
		}
		params.Add(key, value)
	}
	return params, nil
}
