// streamtest connects to a bridge quote stream and prints quotes to the console.
// Usage: go run ./cmd/streamtest --config configs/bridge.yaml --instruments EURUSD,XAUUSD
//
// The stream address comes from the stream section of the bridge config; --url
// overrides it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/mtbridge/internal/config"
	"github.com/rickgao/mtbridge/internal/stream"
)

func main() {
	configPath := flag.String("config", "configs/bridge.yaml", "path to config file")
	rawURL := flag.String("url", "", "stream URL (overrides config)")
	instruments := flag.String("instruments", "", "comma-separated instruments to subscribe to (default all)")
	verbose := flag.Bool("verbose", false, "print full message JSON")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	target := *rawURL
	if target == "" {
		cfg, err := config.LoadWithDefaults(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		u := url.URL{Scheme: "ws", Host: cfg.Stream.Listen, Path: cfg.Stream.Path}
		target = u.String()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	logger.Info("connecting to stream", "url", target)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if *instruments != "" {
		cmd := stream.Command{
			Action:      stream.ActionSubscribe,
			Instruments: strings.Split(*instruments, ","),
		}
		if err := conn.WriteJSON(cmd); err != nil {
			logger.Error("failed to subscribe", "error", err)
			os.Exit(1)
		}
	}

	// Close the socket on shutdown to unblock the reader
	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	logger.Info("streaming started - press Ctrl+C to stop")

	var received int
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("stream read failed", "error", err)
			}
			break
		}
		received++
		printMessage(data, *verbose)
	}

	logger.Info("shutdown complete", "messages", received)
}

func printMessage(data []byte, verbose bool) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		fmt.Printf("[UNKNOWN] %s\n", data)
		return
	}

	switch head.Type {
	case stream.TypeQuote:
		var q stream.Quote
		if err := json.Unmarshal(data, &q); err != nil {
			fmt.Printf("[QUOTE] malformed: %s\n", data)
			return
		}
		if verbose {
			out, _ := json.MarshalIndent(q, "", "  ")
			fmt.Printf("[QUOTE] %s\n", out)
			return
		}
		fmt.Printf("[QUOTE] %s %s bid=%g ask=%g spread=%g vol=%d\n",
			time.UnixMilli(q.Time).UTC().Format("15:04:05.000"),
			q.Instrument, q.Bid, q.Ask, q.Spread, q.Volume)
	default:
		var r stream.Reply
		json.Unmarshal(data, &r)
		fmt.Printf("[%s] all=%t instruments=%v %s\n", strings.ToUpper(r.Type), r.All, r.Instruments, r.Error)
	}
}
