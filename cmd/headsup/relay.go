package main

import (
	"github.com/josephklwork-hash/headsup/cmd/headsup/shared"
	"github.com/josephklwork-hash/headsup/internal/game"
	"github.com/josephklwork-hash/headsup/internal/transport"
)

// RelayCmd runs the standalone message relay
type RelayCmd struct {
	Addr   string `kong:"help='Listen address (overrides config)'"`
	Config string `kong:"default='headsup.hcl',help='Config file path'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *RelayCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	cfg, err := game.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	addr := cfg.Relay.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	relay := transport.NewRelay(addr, logger)
	logger.Info("Starting relay", "addr", addr)

	ctx := shared.SetupSignalHandler(logger)
	return relay.Start(ctx)
}
