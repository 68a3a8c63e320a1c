package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"todoheroes/internal/config"
	"todoheroes/internal/kv"
	"todoheroes/internal/task"
	"todoheroes/internal/ui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.ResolveConfigPath())
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Printf("failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
	})

	store, err := kv.Open(cfg.StorePath)
	if err != nil {
		fmt.Printf("failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	tasks := task.New(store, logger)
	tasks.SetUndoWindow(time.Duration(cfg.UndoSeconds) * time.Second)
	tasks.Load()
	tasks.ApplyDefaultFilter(task.ParseFilter(cfg.DefaultFilter))

	if err := ui.Run(tasks, cfg); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
