// Command convert-pdfs renders every page of a list of PDF files to PNG
// images at a fixed zoom.
//
// Usage: convert-pdfs [flags] [file.pdf ...]
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
	"github.com/book-expert/asset-tools/internal/pdfrender"
)

type configPaths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
}

type configLogsDir struct {
	ConvertPDFs string `toml:"convert_pdfs"`
}

type configPDF struct {
	Sources    []string `toml:"sources"`
	Renderer   string   `toml:"renderer"`
	Zoom       float64  `toml:"zoom"`
	StemLength int      `toml:"stem_length"`
}

// config mirrors the sections of project.toml this tool reads.
type config struct {
	Paths   configPaths   `toml:"paths"`
	LogsDir configLogsDir `toml:"logs_dir"`
	PDF     configPDF     `toml:"pdf"`
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

// run is the main logic function, separated from main to allow for easier testing and
// clean exit handling.
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

	options, err := mergeConfigAndFlags(&cfg, flgs)
	if err != nil {
		return err
	}

	return processWithLogger(ctx, &options, cfg.LogsDir.ConvertPDFs)
}

// flags represents the command-line arguments.
type flags struct {
	configPath string
	configURL  string
	inputDir   string
	outputPath string
	renderer   string
	sources    []string
	zoom       float64
}

// parseFlags defines and parses command-line flags. Positional arguments are
// PDF paths.
func parseFlags(args []string, output io.Writer) (flags, error) {
	var flagsVar flags

	flagSet := flag.NewFlagSet("convert-pdfs", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVar(
		&flagsVar.configPath,
		"config",
		appconfig.DefaultConfigPath,
		"Path to the TOML config file.",
	)
	flagSet.StringVar(&flagsVar.configURL, "config-url", "", "Load config from this URL instead.")
	flagSet.StringVar(
		&flagsVar.inputDir,
		"input-dir",
		"",
		"Also convert every PDF found in this directory.",
	)
	flagSet.StringVar(&flagsVar.outputPath, "output", "", "Output directory for PNG files.")
	flagSet.StringVar(
		&flagsVar.renderer,
		"renderer",
		"",
		"Rendering backend: mupdf or ghostscript.",
	)
	flagSet.Float64Var(&flagsVar.zoom, "zoom", 0, "Zoom factor relative to 72 DPI.")

	err := flagSet.Parse(args)
	if err != nil {
		return flags{}, fmt.Errorf("invalid arguments: %w", err)
	}

	flagsVar.sources = flagSet.Args()

	return flagsVar, nil
}

// mergeConfigAndFlags combines settings from the config file and command-line flags.
// Flags take precedence over the config file settings; PDFs named on the
// command line replace the configured list.
func mergeConfigAndFlags(cfg *config, flgs flags) (pdfrender.Options, error) {
	opts := pdfrender.Options{
		ProgressBarOutput: nil,
		SourcePaths:       cfg.PDF.Sources,
		OutputPath:        cfg.Paths.OutputDir,
		Renderer:          cfg.PDF.Renderer,
		Zoom:              cfg.PDF.Zoom,
		StemLength:        cfg.PDF.StemLength,
	}

	if len(flgs.sources) > 0 {
		opts.SourcePaths = flgs.sources
	}

	if flgs.outputPath != "" {
		opts.OutputPath = flgs.outputPath
	}

	if flgs.renderer != "" {
		opts.Renderer = flgs.renderer
	}

	if flgs.zoom > 0 {
		opts.Zoom = flgs.zoom
	}

	inputDir := cfg.Paths.InputDir
	if flgs.inputDir != "" {
		inputDir = flgs.inputDir
	}

	if inputDir != "" {
		discovered, err := pdfrender.DiscoverPDFs(inputDir)
		if err != nil {
			return opts, fmt.Errorf("failed to discover PDFs: %w", err)
		}

		opts.SourcePaths = append(append([]string{}, opts.SourcePaths...), discovered...)
	}

	return opts, nil
}

// processWithLogger sets up the logger and runs the processor.
func processWithLogger(
	ctx context.Context,
	options *pdfrender.Options,
	logDir string,
) error {
	log, err := appconfig.NewLogger(logDir, "convert_pdfs")
	if err != nil {
		return fmt.Errorf("could not set up logger: %w", err)
	}

	defer func() {
		cerr := log.Close()
		if cerr != nil {
			_, _ = fmt.Fprintf(
				os.Stderr,
				"failed to close logger: %v\n",
				cerr,
			)
		}
	}()

	log.Info("Run %s: converting %d PDF(s)", appconfig.NewRunID(), len(options.SourcePaths))

	processor := pdfrender.NewProcessor(options, log)

	result, procErr := processor.Process(ctx)
	if procErr != nil {
		return fmt.Errorf("PDF conversion failed: %w", procErr)
	}

	log.Info(
		"Converted %d PDF(s), %d page(s); skipped %d missing",
		result.Converted,
		result.Pages,
		result.Skipped,
	)

	return nil
}
