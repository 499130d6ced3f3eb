package main

import (
	"fmt"
	"os"

	"github.com/vilaca/issue-views/internal/cli"
	"github.com/vilaca/issue-views/internal/config"
	"github.com/vilaca/issue-views/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	app := cli.NewApp(cfg, s, os.Stdout)
	return cli.NewRootCmd(app).Execute()
}
