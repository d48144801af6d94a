package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" default:"withargs" help:"Run the card game server"`
	Simulate SimulateCmd      `cmd:"" help:"Play bot-only games and report the results"`
	Meld     MeldCmd          `cmd:"" help:"Count the pinochle meld in a hand"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("trickserver"),
		kong.Description("Multiplayer server for Hearts, Pinochle and Mizerka"),
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
