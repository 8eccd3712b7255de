package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: logarchive [-config file] <command> [args]

commands:
  retire [-keep] <file>...  archive files, then delete them unless -keep
  sweep                     run one sweep of the configured directory
  run                       run the sweep daemon with health and metrics servers
`

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func run(args []string, stderr io.Writer) error {
	flags := flag.NewFlagSet("logarchive", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := flags.String("config", "", "path to configuration file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Priority: CLI flag > CONFIG_PATH env var > none (defaults and env only)
	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}

	rest := flags.Args()
	if len(rest) == 0 {
		flags.Usage()
		return errors.New("missing command")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command, cmdArgs := rest[0], rest[1:]
	switch command {
	case "retire":
		return runRetire(ctx, cfgPath, cmdArgs, stderr)
	case "sweep":
		return runSweep(ctx, cfgPath)
	case "run":
		return runDaemon(ctx, cfgPath)
	default:
		flags.Usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}
