package cmd

import (
	"context"
	"fmt"
	"strings"
)

const usage = `interpreter-gateway is a multi-provider LLM gateway for the Chengdu
Chinese interpreter assistant.

Usage:
  interpreter-gateway serve [flags]
  interpreter-gateway check [flags]

Commands:
  serve    Start the HTTP gateway
  check    Print the resolved provider configuration diagnostic

Flags:
  -h, --help  Show this help message`

// Execute runs the CLI dispatcher with the provided arguments.
func Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return printUsage()
	}

	switch args[0] {
	case "serve":
		return serve(ctx, args[1:])
	case "check":
		return check(args[1:])
	case "help", "-h", "--help":
		return printUsage()
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func printUsage() error {
	fmt.Println(strings.TrimSpace(usage))
	return nil
}
