package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alfredjeanlab/weft/internal/events"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream graph mutation events",
	GroupID: "workflows",
	Long: `Stream graph mutation events as they happen. Connects to NATS when
WEFT_NATS_URL (or the active profile's NATS URL) is set, otherwise falls
back to the server's SSE stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetString("topics")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		natsURL := os.Getenv("WEFT_NATS_URL")
		if natsURL == "" {
			natsURL = activeProfileNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, topics)
		}
		return watchSSE(ctx, topics)
	},
}

// watchNATS subscribes to the event bus directly and prints raw payloads.
func watchNATS(ctx context.Context, natsURL, topics string) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	// NATS wildcards: collapse SSE-style filters to a subject per pattern.
	subject := topics
	if subject == "" {
		subject = "weft.>"
	}
	ch, cancel, err := sub.Subscribe(subject)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-ch:
			if !ok {
				return nil
			}
			fmt.Printf("%s %s\n", time.Now().Format("15:04:05"), payload)
		}
	}
}

// watchSSE consumes the server's /v1/events/stream endpoint.
func watchSSE(ctx context.Context, topics string) error {
	endpoint := strings.TrimRight(serverURL, "/") + "/v1/events/stream"
	if topics != "" {
		endpoint += "?topics=" + topics
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	// No client timeout: the stream is long-lived.
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return fmt.Errorf("connecting to event stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	var topic string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			topic = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:"):
			fmt.Printf("%s %s %s\n", time.Now().Format("15:04:05"), topic, strings.TrimPrefix(line, "data:"))
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return scanner.Err()
}

func init() {
	watchCmd.Flags().String("topics", "", `topic filter (e.g. "weft.edge.*")`)
}
