package main

import (
	"context"
	"log"
	"os"
	"os/signal"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	config, err := ParseConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	if config.Diff {
		os.Exit(diffMain(config.DiffArgs))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := NewApp(config).Run(ctx)
	stop()

	os.Exit(code)
}
