package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	natspkg "github.com/brojonat/blinkshop/service/nats"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/urfave/cli/v2"
)

// subscribeCommand streams action events from JetStream.
func subscribeCommand() *cli.Command {
	return &cli.Command{
		Name:      "subscribe",
		Usage:     "Stream action events",
		ArgsUsage: "[action]",
		Description: `Subscribe to action events published to NATS JetStream.

Events are published to the subject: actions.{action}
Without an argument all actions are streamed.

Example:
  blinkctl events subscribe checkout --jq '.lamports'`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Stop after this long (0 streams until interrupted)",
			},
			&cli.BoolFlag{
				Name:  "new-only",
				Usage: "Only deliver events published after subscribing",
			},
		},
		Action: func(c *cli.Context) error {
			subject := natspkg.StreamSubjects
			if c.NArg() > 0 {
				subject = "actions." + c.Args().Get(0)
			}
			return streamEvents(c, subject)
		},
	}
}

func streamEvents(c *cli.Context, subject string) error {
	nc, err := nats.Connect(c.String("nats-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if timeout := c.Duration("timeout"); timeout > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, timeout)
		defer timeoutCancel()
	}

	deliver := jetstream.DeliverAllPolicy
	if c.Bool("new-only") {
		deliver = jetstream.DeliverNewPolicy
	}

	cons, err := js.OrderedConsumer(ctx, natspkg.StreamName, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{subject},
		DeliverPolicy:  deliver,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	if !jsonOutput(c) {
		fmt.Fprintf(c.App.ErrWriter, "📡 Subscribing to: %s\n\n", subject)
	}

	msgChan := make(chan jetstream.Msg, 10)
	consumeCtx, err := cons.Consume(func(msg jetstream.Msg) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}
	defer consumeCtx.Stop()

	received := 0
	for {
		select {
		case msg := <-msgChan:
			var event natspkg.ActionEvent
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				fmt.Fprintf(c.App.ErrWriter, "Error parsing event: %v\n", err)
				continue
			}
			received++

			if jsonOutput(c) {
				if err := printJSON(c, event); err != nil {
					return err
				}
				continue
			}
			printEvent(c, received, &event)

		case <-ctx.Done():
			if !jsonOutput(c) {
				fmt.Fprintf(c.App.ErrWriter, "Received %d event(s)\n", received)
			}
			return nil
		}
	}
}

func printEvent(c *cli.Context, n int, e *natspkg.ActionEvent) {
	w := c.App.Writer
	fmt.Fprintf(w, "✅ %s event (#%d)\n", e.Action, n)
	fmt.Fprintf(w, "   ID:        %s\n", e.ID)
	fmt.Fprintf(w, "   Account:   %s\n", e.Account)
	fmt.Fprintf(w, "   Recipient: %s\n", e.Recipient)
	fmt.Fprintf(w, "   Lamports:  %d\n", e.Lamports)
	if e.SKU != "" {
		fmt.Fprintf(w, "   Item:      %d x %s\n", e.Quantity, e.SKU)
	}
	if e.BalanceCheckSkipped {
		fmt.Fprintf(w, "   Balance check skipped\n")
	}
	fmt.Fprintf(w, "   Created:   %s\n\n", e.CreatedAt.Format(time.RFC3339))
}
