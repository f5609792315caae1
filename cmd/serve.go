package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"interpreter-gateway/internal/config"
	"interpreter-gateway/internal/provider"
	"interpreter-gateway/internal/router"
	"interpreter-gateway/internal/server"
)

const serveUsage = `Usage:
  interpreter-gateway serve [--config <path>] [--port <port>]

Flags:
  --config string   Path to optional YAML configuration file
  --port   int      Override server port from configuration/environment`

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, serveUsage)
	}

	var cfgPath string
	var overridePort int
	fs.StringVar(&cfgPath, "config", "", "path to configuration file")
	fs.IntVar(&overridePort, "port", 0, "override server port")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse serve flags: %w", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if overridePort != 0 {
		if overridePort <= 0 || overridePort > 65535 {
			return fmt.Errorf("port override %d must be a valid TCP port", overridePort)
		}
		cfg.Server.Port = overridePort
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	resolved, err := provider.Resolve(cfg.Provider)
	if err != nil {
		return err
	}

	rt, err := router.New(resolved, nil, log)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, rt, log)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
