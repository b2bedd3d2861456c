// Command apicli sends a single JSON HTTP request and prints the response.
// Usage: apicli <METHOD> <URL> [jsonData] [--output file]
// With no arguments on a terminal it prompts for everything instead.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/apicli/internal/app"
)

func main() {
	cfg, err := app.LoadConfig(app.DefaultEnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(app.ExitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.NewApplication(cfg).Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
