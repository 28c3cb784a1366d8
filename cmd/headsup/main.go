package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Relay   RelayCmd         `cmd:"" help:"Run the message relay"`
	Host    HostCmd          `cmd:"" help:"Host a match on a relay"`
	Join    JoinCmd          `cmd:"" help:"Join a hosted match"`
	Solo    SoloCmd          `cmd:"" help:"Play against the built-in opponent"`
	History HistoryCmd       `cmd:"" help:"Show recent hand results"`
}

func main() {
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("headsup"),
		kong.Description("Heads-up no-limit hold'em over a relay"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
