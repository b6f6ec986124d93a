package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/lintel/pkg/linter"
	"github.com/praetorian-inc/lintel/pkg/rule"
	"github.com/praetorian-inc/lintel/pkg/serve"
	"github.com/spf13/cobra"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as streaming server for editor integration",
	Long: `Run Lintel as a long-lived streaming server that accepts lint requests
via stdin and writes diagnostics to stdout using NDJSON format.

The process resolves its rules once at startup and processes requests until
stdin closes, a "close" request arrives or SIGTERM is received.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config file (default: built-in configuration)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	loader := rule.NewLoader(logger)
	cfg, err := loader.LoadBuiltinConfig()
	if err != nil {
		return err
	}
	if serveConfigPath != "" {
		project, err := loader.LoadConfigFile(serveConfigPath)
		if err != nil {
			return err
		}
		cfg = cfg.Merge(project)
	}

	base := linter.Config{Logger: logger}
	engineCfg := base
	engineCfg.Rules = cfg.Rules
	engine, err := linter.New(engineCfg)
	if err != nil {
		return fmt.Errorf("creating linter: %w", err)
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create and run server
	srv := serve.NewServer(engine, base, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
