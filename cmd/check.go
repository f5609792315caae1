package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"interpreter-gateway/internal/config"
	"interpreter-gateway/internal/provider"
	"interpreter-gateway/internal/server"
)

const checkUsage = `Usage:
  interpreter-gateway check [--config <path>]

Prints the resolved provider configuration with masked credentials and
actionable warnings. The same report is served at GET /api/config-check.`

func check(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, checkUsage)
	}

	var cfgPath string
	fs.StringVar(&cfgPath, "config", "", "path to configuration file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse check flags: %w", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	resolved, err := provider.Resolve(cfg.Provider)
	if err != nil {
		return err
	}

	hasFallback := (!resolved.SupportsSpeech || !resolved.SupportsTranscription) && resolved.FallbackAPIKey != ""
	report := server.BuildConfigReport(cfg, resolved, hasFallback)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
