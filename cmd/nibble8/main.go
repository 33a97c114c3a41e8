// Package main implements the nibble8 CHIP-8 interpreter executable.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"nibble8/internal/app"
	"nibble8/internal/version"

	retroapp "github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

const defaultHeadlessFrames = 600

type options struct {
	ROM     string
	Config  string
	Backend string
	IPF     int
	Frames  int
	Debug   bool
	Quiet   bool
	Trace   bool
	NoGUI   bool
	Help    bool
	Version bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if opts.Help {
		printUsage()
		return
	}
	if opts.Version {
		version.PrintBuildInfo(os.Stdout)
		return
	}

	ctx := retroapp.Context()
	if err := run(ctx, opts); err != nil {
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	flags := flag.NewFlagSet("nibble8", flag.ContinueOnError)
	var opts options

	flags.StringVar(&opts.ROM, "rom", "", "path to CHIP-8 ROM file (optional in GUI mode)")
	flags.StringVar(&opts.Config, "config", "", "path to configuration file")
	flags.StringVar(&opts.Backend, "backend", "", "graphics backend override (ebitengine, terminal, headless)")
	flags.IntVar(&opts.IPF, "ipf", 0, "instructions executed per 60 Hz frame (0 keeps the configured value)")
	flags.IntVar(&opts.Frames, "frames", defaultHeadlessFrames, "maximum frames to run in headless mode")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "quiet", false, "only log errors")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&opts.NoGUI, "nogui", false, "run without GUI (headless mode)")
	flags.BoolVar(&opts.Help, "help", false, "show help message")
	flags.BoolVar(&opts.Version, "version", false, "show version information")

	if err := flags.Parse(args); err != nil {
		return opts, fmt.Errorf("parsing flags: %w", err)
	}
	if rest := flags.Args(); len(rest) > 0 {
		if opts.ROM != "" || len(rest) > 1 {
			return opts, fmt.Errorf("unexpected arguments: %v", rest)
		}
		opts.ROM = rest[0]
	}
	if opts.NoGUI && opts.ROM == "" {
		return opts, errors.New("headless mode requires a ROM file")
	}
	if opts.Frames <= 0 {
		return opts, fmt.Errorf("invalid frame count %d", opts.Frames)
	}
	return opts, nil
}

// loadConfig reads the configuration file and applies command line overrides.
func loadConfig(opts options) (*app.Config, error) {
	path := opts.Config
	if path == "" {
		path = app.GetDefaultConfigPath()
	}

	config := app.NewConfig()
	if err := config.LoadFromFile(path); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.IPF > 0 {
		config.Emulation.InstructionsPerFrame = opts.IPF
	}
	if opts.Backend != "" {
		config.Video.Backend = opts.Backend
	}
	if opts.Trace {
		config.Debug.CPUTracing = true
	}
	switch {
	case opts.Debug || opts.Trace:
		config.Debug.LogLevel = "debug"
	case opts.Quiet:
		config.Debug.LogLevel = "error"
	}
	return config, nil
}

func run(ctx context.Context, opts options) error {
	logger := app.CreateLogger(opts.Debug || opts.Trace, opts.Quiet)

	config, err := loadConfig(opts)
	if err != nil {
		logger.Error("Failed to load configuration", log.Err(err))
		return err
	}
	logger = app.CreateLogger(config.LogLevel())

	application, err := app.NewApplication(config, logger, opts.NoGUI)
	if err != nil {
		logger.Error("Failed to create application", log.Err(err))
		return err
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			logger.Warn("Cleanup failed", log.Err(err))
		}
	}()

	if opts.ROM != "" {
		if err := application.LoadROM(opts.ROM); err != nil {
			logger.Error("Failed to load ROM", log.String("path", opts.ROM), log.Err(err))
			return err
		}
	}

	if opts.NoGUI {
		result, err := application.RunHeadless(ctx, opts.Frames)
		if err != nil {
			logger.Error("Execution stopped", log.Int("frames", result.Frames), log.Err(err))
			return err
		}
		return nil
	}

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return nil
		}
		logger.Error("Application error", log.Err(err))
		return err
	}
	return nil
}

func printUsage() {
	fmt.Println("nibble8 - CHIP-8 interpreter")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  nibble8 [options] [rom]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -rom <file>       Path to CHIP-8 ROM file")
	fmt.Println("  -config <file>    Path to configuration file")
	fmt.Println("  -backend <name>   Graphics backend (ebitengine, terminal, headless)")
	fmt.Println("  -ipf <n>          Instructions per frame")
	fmt.Println("  -frames <n>       Frames to run in headless mode")
	fmt.Println("  -debug            Enable debug logging")
	fmt.Println("  -quiet            Only log errors")
	fmt.Println("  -trace            Log every executed instruction")
	fmt.Println("  -nogui            Run without GUI (headless mode)")
	fmt.Println("  -help             Show this help message")
	fmt.Println("  -version          Show version information")
	fmt.Println()
	fmt.Println("Keypad:")
	fmt.Println("  1 2 3 C           1 2 3 4")
	fmt.Println("  4 5 6 D    <->    Q W E R")
	fmt.Println("  7 8 9 E           A S D F")
	fmt.Println("  A 0 B F           Z X C V")
	fmt.Println()
	fmt.Println("Controls:")
	fmt.Println("  Up/Down, Enter    Select ROM in menu")
	fmt.Println("  Escape            Return to menu / quit from menu")
	fmt.Println("  P                 Pause/Resume")
	fmt.Println("  F5                Reset")
	fmt.Println("  F1-F4             Save state to slot")
	fmt.Println("  Shift+F1-F4       Load state from slot")
	fmt.Println("  F12               Screenshot")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  nibble8 -rom roms/pong.ch8")
	fmt.Println("  nibble8 -nogui -frames 120 -rom roms/ibm.ch8")
}
