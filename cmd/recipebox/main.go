package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aussiebroadwan/recipebox/internal/recipebox/app"
	"github.com/aussiebroadwan/recipebox/internal/recipebox/cli"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recipebox: failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(application)
	runErr := root.ExecuteContext(application.Context(context.Background()))

	if err := application.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "recipebox: %s\n", cli.Explain(runErr))
		os.Exit(1)
	}
}
