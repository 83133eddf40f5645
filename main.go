// ABOUTME: Entry point for vidgrab, a simulated video downloader
// ABOUTME: Handles command-line parsing, profiling, and routing to TUI, CLI or trials modes

// Package main provides the entry point for vidgrab, a terminal front end that
// walks a video link through analysis and a simulated multi-method download.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/google/uuid"

	"vidgrab/config"
	"vidgrab/tui"
	"vidgrab/workflow"
)

func main() {
	os.Exit(run())
}

func run() int {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")
	debug := flag.Bool("debug", false, "enable debug logging to "+debugLogFile)
	url := flag.String("url", "", "video or playlist URL; runs without the TUI when set")
	quality := flag.String("quality", "", "download quality: best, good or standard (default from config)")
	path := flag.String("path", "", "destination directory (default from config)")
	playlistChoice := flag.String("playlist", "", "playlist links: single or playlist (CLI mode)")
	yes := flag.Bool("yes", false, "confirm large playlists without asking (CLI mode)")
	trials := flag.Int("trials", 0, "run N simulated downloads and report method statistics")
	seed := flag.Uint64("seed", 0, "random seed for reproducible runs (0 = random)")
	configFile := flag.String("config", "", "config file path (default ./vidgrab.toml or ~/.config/vidgrab/config.toml)")
	flag.Parse()

	if flag.NArg() > 1 {
		fmt.Println("Usage: vidgrab [flags] [url]")
		fmt.Println("Example: vidgrab -url https://youtu.be/dQw4w9WgXcQ -quality good")
		fmt.Println("A positional url prefills the TUI form; -url runs without the TUI.")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	if *cpuprofile != "" {
		stopCPUProfile := setupCPUProfile(*cpuprofile)
		defer stopCPUProfile()
	}

	if *memprofile != "" {
		defer writeMemoryProfile(*memprofile)
	}

	if *debug {
		if err := SetupDebugLog(debugLogFile); err != nil {
			log.Printf("Failed to setup debug log: %v", err)

			return 1
		}
	}

	configPath := *configFile
	if configPath == "" {
		configPath = config.GetConfigPath()
	}

	sharedCfg := loadSharedConfig(configPath)

	if *trials != 0 {
		if err := RunTrials(*trials, *seed); err != nil {
			log.Printf("Trials error: %v", err)

			return 1
		}

		return 0
	}

	opts, err := resolveOptions(RunOptions{
		URL:          *url,
		DownloadPath: *path,
		AssumeYes:    *yes,
		Seed:         *seed,
		DebugLog:     *debug,
	}, *quality, *playlistChoice, sharedCfg.Get())
	if err != nil {
		log.Printf("Invalid flags: %v", err)

		return 1
	}

	if opts.URL != "" {
		if err := RunCLI(opts, sharedCfg.Get()); err != nil {
			log.Printf("CLI error: %v", err)

			return 1
		}

		return 0
	}

	// Flags override the config for this session only; quit saves TUI edits
	// on top of the file as read from disk
	cfg := sharedCfg.Get()
	cfg.Quality = string(opts.Quality)
	cfg.DownloadPath = opts.DownloadPath
	sharedCfg.Update(cfg)

	deps := tui.Dependencies{
		SharedConfig: sharedCfg,
		Clock:        workflow.RealClock{},
		Rand:         workflow.NewRandom(opts.Seed),
		NewRunID:     uuid.NewString,
		SaveConfig:   config.SaveConfig,
		LoadFile:     config.LoadFile,
		Debugf:       debugf,
		ConfigPath:   configPath,
	}

	_, statErr := os.Stat(configPath)

	tuiOpts := tui.Options{
		InitialURL:  flag.Arg(0),
		WatchConfig: statErr == nil,
	}

	if err := tui.Run(tuiOpts, deps); err != nil {
		log.Printf("TUI error: %v", err)

		return 1
	}

	return 0
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) func() {
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		log.Fatalf("could not start CPU profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}
