package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/soldbd/internal/client/cli"
	"github.com/dmitrijs2005/soldbd/internal/client/config"
	"github.com/dmitrijs2005/soldbd/internal/flagx"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = app.Run(ctx, flagx.Positional(os.Args[1:], config.ValueFlags))
	_ = app.Close()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if cli.IsUsage(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}

}
