package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/branched-services/go-storagedapp/internal/flags"
)

var (
	Version   = "v0.0.0"
	GitCommit = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx context.Context, w io.Writer, ew io.Writer, args []string) error {
	app := cli.NewApp()
	app.Writer = w
	app.ErrWriter = ew
	app.Flags = flags.Flags
	app.Version = formatVersion(Version, GitCommit)
	app.Name = "storagedapp"
	app.Usage = "Connects a wallet to a SimpleStorage contract and reads or writes its value."
	app.Description = "Serves a web frontend for the contract by default.\n" +
		" The get and set commands run a single operation and exit."
	app.Action = serve
	app.Commands = []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Serve the web frontend",
			Action: serve,
		},
		{
			Name:   "get",
			Usage:  "Print the stored value",
			Action: get,
		},
		{
			Name:      "set",
			Usage:     "Store a new value and print the value read back",
			ArgsUsage: "<value>",
			Action:    set,
		},
	}
	return app.RunContext(ctx, args)
}

func formatVersion(version, commit string) string {
	if len(commit) > 8 {
		commit = commit[:8]
	}
	if commit == "" {
		return version
	}
	return version + "-" + commit
}
