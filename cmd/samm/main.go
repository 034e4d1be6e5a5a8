package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "samm operator CLI"
	app.Usage = "command line interface for inspecting SAMM routing against a snapshot"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     "snapshot",
			Usage:    "path of the JSON shard snapshot file",
			Required: true,
		},
	}
	app.Commands = append(
		app.Commands,
		&routes,
		&bestshard,
		&smallestshards,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[samm] %v\n", err)
	os.Exit(1)
}
