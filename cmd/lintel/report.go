package main

import (
	"fmt"
	"os"

	"github.com/praetorian-inc/lintel/pkg/store"
	"github.com/spf13/cobra"
)

var (
	reportDatastore string
	reportFormat    string
	reportColor     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from lint results",
	Long:  "Read diagnostics from a datastore and render them as human, json or sarif output",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "lintel.db", "Path to datastore file or postgres:// URL")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
}

func runReport(cmd *cobra.Command, args []string) error {
	storePath := reportDatastore

	// Check if it's :memory: (invalid for report)
	if storePath == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}
	if !store.IsPostgresDSN(storePath) {
		if _, err := os.Stat(storePath); err != nil {
			return fmt.Errorf("datastore not found: %s", storePath)
		}
	}

	// Open store
	s, err := store.New(store.Config{
		Path: storePath,
	})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	diags, err := s.GetDiagnostics()
	if err != nil {
		return fmt.Errorf("retrieving diagnostics: %w", err)
	}

	return writeDiagnostics(cmd.OutOrStdout(), reportFormat, reportColor, registeredRules(), diags)
}
