package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/brojonat/blinkshop/service/actions"
	"github.com/brojonat/blinkshop/service/solana"
	"github.com/urfave/cli/v2"
)

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "Decode a base64 transaction returned by an action",
		ArgsUsage: "BASE64_TRANSACTION (or - to read stdin)",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("transaction is required")
			}

			encoded := c.Args().Get(0)
			if encoded == "-" {
				var err error
				encoded, err = readAll(c.App.Reader)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
			}

			summary, err := decodeTransaction(encoded)
			if err != nil {
				return err
			}

			if jsonOutput(c) {
				return printJSON(c, summary)
			}
			printSummary(c, summary)
			return nil
		},
	}
}

func decodeTransaction(encoded string) (*solana.TransactionSummary, error) {
	tx, err := actions.Decode(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	summary, err := solana.Summarize(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transaction: %w", err)
	}
	return summary, nil
}

func printSummary(c *cli.Context, summary *solana.TransactionSummary) {
	w := c.App.Writer
	fmt.Fprintf(w, "Fee payer:   %s\n", summary.FeePayer)
	fmt.Fprintf(w, "Blockhash:   %s\n", summary.RecentBlockhash)
	fmt.Fprintf(w, "Signatures:  %d required, signed=%t\n", summary.RequiredSignatures, summary.Signed)
	for i, t := range summary.Transfers {
		fmt.Fprintf(w, "Transfer %d:  %s SOL (%d lamports)\n", i+1, actions.FormatSOL(t.Lamports), t.Lamports)
		fmt.Fprintf(w, "  From:      %s\n", t.From)
		fmt.Fprintf(w, "  To:        %s\n", t.To)
	}
}

func readAll(r io.Reader) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
	}
	return sb.String(), scanner.Err()
}
