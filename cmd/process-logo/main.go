// Command process-logo trims a logo, centers it on a transparent square and
// writes logo.png, the PWA icons and favicon.ico.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/asset-tools/internal/appconfig"
	"github.com/book-expert/asset-tools/internal/logo"
)

type configLogsDir struct {
	ProcessLogo string `toml:"process_logo"`
}

type configLogo struct {
	Source  string `toml:"source"`
	DestDir string `toml:"dest_dir"`
	Padding int    `toml:"padding"`
}

// config mirrors the sections of project.toml this tool reads.
type config struct {
	LogsDir configLogsDir `toml:"logs_dir"`
	Logo    configLogo    `toml:"logo"`
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	err := run(ctx, os.Args[1:])

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flgs, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	var cfg config

	err = appconfig.Load(flgs.configPath, flgs.configURL, &cfg)
	if err != nil {
		return err
	}

	options := mergeConfigAndFlags(&cfg, flgs)

	return processWithLogger(ctx, &options, cfg.LogsDir.ProcessLogo)
}

// flags represents the command-line arguments.
type flags struct {
	configPath string
	configURL  string
	source     string
	destDir    string
	padding    int
}

func parseFlags(args []string, output io.Writer) (flags, error) {
	var flagsVar flags

	flagSet := flag.NewFlagSet("process-logo", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVar(
		&flagsVar.configPath,
		"config",
		appconfig.DefaultConfigPath,
		"Path to the TOML config file.",
	)
	flagSet.StringVar(&flagsVar.configURL, "config-url", "", "Load config from this URL instead.")
	flagSet.StringVar(&flagsVar.source, "source", "", "Source logo image.")
	flagSet.StringVar(&flagsVar.destDir, "dest", "", "Directory for the master image and icons.")
	flagSet.IntVar(&flagsVar.padding, "padding", 0, "Transparent margin around the logo, in pixels.")

	err := flagSet.Parse(args)
	if err != nil {
		return flags{}, fmt.Errorf("invalid arguments: %w", err)
	}

	return flagsVar, nil
}

// mergeConfigAndFlags combines settings from the config file and command-line flags.
// Flags take precedence over the config file settings.
func mergeConfigAndFlags(cfg *config, flgs flags) logo.Options {
	opts := logo.Options{
		SourcePath: cfg.Logo.Source,
		DestDir:    cfg.Logo.DestDir,
		Icons:      nil,
		Padding:    cfg.Logo.Padding,
	}

	if flgs.source != "" {
		opts.SourcePath = flgs.source
	}

	if flgs.destDir != "" {
		opts.DestDir = flgs.destDir
	}

	if flgs.padding > 0 {
		opts.Padding = flgs.padding
	}

	return opts
}

// processWithLogger sets up the logger and runs the processor.
func processWithLogger(ctx context.Context, options *logo.Options, logDir string) error {
	log, err := appconfig.NewLogger(logDir, "process_logo")
	if err != nil {
		return fmt.Errorf("could not set up logger: %w", err)
	}

	defer func() {
		cerr := log.Close()
		if cerr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to close logger: %v\n", cerr)
		}
	}()

	log.Info("Run %s: processing %s", appconfig.NewRunID(), options.SourcePath)

	procErr := logo.NewProcessor(options, log).Process(ctx)
	if procErr != nil {
		log.Error("Error processing image: %v", procErr)

		return fmt.Errorf("logo processing failed: %w", procErr)
	}

	return nil
}
