// FILE: fennec-dl/config/cmd/confgrid/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/fennec-dl/config"
)

// reserved flags are never registered as overrides
var reserved = []string{"config", "format", "output-dir", "help", "verbose"}

// main is the entrypoint for confgrid: it loads a configuration, expands the
// override flags into a grid and prints every variant.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run holds the application logic so tests can drive it with their own args.
func run(out io.Writer, args []string) error {
	path := config.DiscoverFile(args, config.DefaultDiscoveryOptions("confgrid"))
	if path == "" {
		return errors.New("no configuration found: pass --config <file>")
	}

	logger := slog.Default()
	for _, arg := range args {
		if arg == "--verbose" || arg == "-v" {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}

	tree, err := config.NewLoader().WithLogger(logger).LoadDynamic(path)
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("confgrid", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	if err := config.AddOverrideFlags(flagSet, tree, config.FlagOptions{Exclude: reserved}); err != nil {
		return err
	}
	flagSet.String("config", "", "configuration document (yaml, json or toml)")
	flagSet.String("format", "yaml", "output format: yaml, json or toml")
	flagSet.String("output-dir", "", "also write each variant to this directory")
	flagSet.BoolP("verbose", "v", false, "log why loading failed")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(out, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(out, flagSet)
		return nil
	}

	formatName, _ := flagSet.GetString("format")
	format, err := config.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if format == config.FormatAuto {
		format = config.FormatYAML
	}
	outputDir, _ := flagSet.GetString("output-dir")

	variants, err := config.ExpandFlags(flagSet, tree)
	if err != nil {
		return err
	}
	// Without overrides the grid is empty; the base configuration is the only run.
	if len(variants) == 0 {
		variants = []config.Tree{tree}
	}

	header := color.New(color.FgCyan, color.Bold)
	for i, variant := range variants {
		header.Fprintf(out, "# variant %d/%d\n", i+1, len(variants))
		if err := config.Encode(out, variant, format); err != nil {
			return err
		}
		if outputDir != "" {
			target := filepath.Join(outputDir, fmt.Sprintf("variant-%03d.%s", i+1, format))
			if err := config.WriteFile(target, variant, format); err != nil {
				return err
			}
			logger.Info("variant written", "path", target)
		}
	}
	return nil
}

func printHelp(out io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(out, `confgrid expands a configuration into a grid of variants.

Usage: confgrid --config <file> [--<fqn> <value> ...]

Every leaf of the configuration becomes a repeatable flag; each occurrence
adds one candidate value and the Cartesian product of all candidates is printed.

Flags:
%s`, flagSet.FlagUsages())
}
