package main

import (
	"context"
	"fmt"
	"os"

	"github.com/josephklwork-hash/headsup/cmd/headsup/shared"
	"github.com/josephklwork-hash/headsup/internal/display"
	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/joiner"
	"github.com/josephklwork-hash/headsup/internal/protocol"
	"github.com/josephklwork-hash/headsup/internal/transport"
)

// JoinCmd joins a hosted match as the mirroring peer
type JoinCmd struct {
	Relay  string `kong:"help='Relay URL (overrides config)'"`
	Match  string `kong:"default='table1',help='Match room name'"`
	Config string `kong:"default='headsup.hcl',help='Config file path'"`
	Name   string `kong:"default='joiner',help='Peer name on the relay'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *JoinCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := game.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	relayURL := fmt.Sprintf("http://%s", cfg.Relay.Addr)
	if c.Relay != "" {
		relayURL = c.Relay
	}

	client, err := transport.Dial(relayURL, c.Match, protocol.PeerID(c.Name), logger)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(shared.SetupSignalHandler(logger))
	defer cancel()

	j := joiner.New(logger, client, protocol.PeerID(c.Name),
		joiner.OnState(func(s *protocol.FullStateData) {
			fmt.Println(display.Render(s, s.JoinerSeat))
			if prompt := display.Prompt(s, s.JoinerSeat); prompt != "" {
				fmt.Println(prompt)
			}
		}),
		joiner.OnPeerQuit(func(reason string) {
			fmt.Printf("Host left the match: %s\n", reason)
			cancel()
		}))

	if err := j.RequestSnapshot(ctx); err != nil {
		return err
	}
	logger.Info("Joined match", "relay", relayURL, "match", c.Match)
	fmt.Println("Waiting for the host. Type 'help' for commands.")

	lines := readLines(ctx, os.Stdin)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return j.Quit(context.Background(), "joiner left")
			}
			cmd, err := parseCommand(line)
			if err != nil {
				fmt.Println(err)
				continue
			}
			switch cmd.kind {
			case "deal":
				fmt.Println("only the host deals")
			case "action":
				if err := j.Intent(ctx, cmd.action); err != nil {
					fmt.Println(err)
				}
			case "show":
				if err := j.ShowHand(ctx); err != nil {
					fmt.Println(err)
				}
			case "help":
				fmt.Println(helpText)
			case "quit":
				return j.Quit(context.Background(), "joiner left")
			}
		case <-ctx.Done():
			return nil
		}
	}
}
