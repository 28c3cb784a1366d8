package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"

	"github.com/josephklwork-hash/headsup/cmd/headsup/shared"
	"github.com/josephklwork-hash/headsup/internal/display"
	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/history"
	"github.com/josephklwork-hash/headsup/internal/host"
	"github.com/josephklwork-hash/headsup/internal/protocol"
	"github.com/josephklwork-hash/headsup/internal/randutil"
	"github.com/josephklwork-hash/headsup/internal/transport"
)

// HostCmd hosts a match on a relay
type HostCmd struct {
	Relay  string `kong:"help='Relay URL (overrides config)'"`
	Match  string `kong:"default='table1',help='Match room name'"`
	Config string `kong:"default='headsup.hcl',help='Config file path'"`
	DB     string `kong:"help='Record hands to this sqlite file'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *HostCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := game.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	relayURL := fmt.Sprintf("http://%s", cfg.Relay.Addr)
	if c.Relay != "" {
		relayURL = c.Relay
	}

	rng := randutil.NewFromTime()
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		rng = randutil.New(*c.Seed)
	}

	client, err := transport.Dial(relayURL, c.Match, "host", logger)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := []host.Option{
		host.OnState(func(s *protocol.FullStateData) {
			fmt.Println(display.Render(s, s.HostSeat))
			if prompt := display.Prompt(s, s.HostSeat); prompt != "" {
				fmt.Println(prompt)
			}
		}),
	}
	if c.DB != "" {
		store, err := history.Open(c.DB)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, host.WithHistory(store))
	}

	h := host.New(logger, quartz.NewReal(), client, cfg, rng, time.Now().UnixNano(), opts...)
	logger.Info("Hosting match", "relay", relayURL, "match", c.Match)
	fmt.Println("Type 'deal' to start the first hand, 'help' for commands.")

	ctx, cancel := context.WithCancel(shared.SetupSignalHandler(logger))
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	lines := readLines(ctx, os.Stdin)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				cancel()
				return waitDone(done)
			}
			cmd, err := parseCommand(line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			switch cmd.kind {
			case "deal":
				h.StartHand()
			case "action":
				h.Intent(cmd.action)
			case "show":
				h.ShowHand()
			case "help":
				fmt.Println(helpText)
			case "quit":
				cancel()
				return waitDone(done)
			}
		case <-ctx.Done():
			return waitDone(done)
		}
	}
}

func waitDone(done <-chan error) error {
	err := <-done
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
