package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meltforce/repcycle/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "RepCycle server URL (e.g. https://repcycle.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "ingest API key")
	login := flag.String("login", "", "user login the workouts belong to")
	logDir := flag.String("path", "", "directory containing workout log YAML files")
	dryRun := flag.Bool("dry-run", false, "parse and validate but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repcycle-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *logDir == "" || *login == "" {
		fmt.Fprintf(os.Stderr, "Usage: repcycle-upload -server <URL> -api-key <key> -login <login> -path <log dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if (*serverURL == "" || *apiKey == "") && !*dryRun {
		fmt.Fprintf(os.Stderr, "Error: -server and -api-key are required (or use -dry-run)\n")
		os.Exit(1)
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	info, err := os.Stat(*logDir)
	if err != nil || !info.IsDir() {
		log.Error("log directory not found", "path", *logDir)
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".repcycle-upload")

	state, err := upload.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	var client *upload.Client
	if !*dryRun {
		client = upload.NewClient(*serverURL, *apiKey, *login)
	}

	if *dryRun {
		log.Info("DRY RUN mode: files will be parsed and validated but not sent")
	}

	uploader := upload.New(client, state, *logDir, *dryRun, log)
	stats, err := uploader.Run()
	if err != nil {
		log.Error("upload failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:    %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded: %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:  %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:  %d\n", stats.FilesErrored)
	fmt.Printf("  Sets sent:      %d\n", stats.SetsSent)
}
