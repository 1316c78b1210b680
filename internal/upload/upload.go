package upload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int
	SetsSent      int
}

// Uploader walks a directory of workout-log YAML files and POSTs the ones not
// yet recorded in the local state DB.
type Uploader struct {
	client *Client
	state  *StateDB
	logDir string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader.
func New(client *Client, state *StateDB, logDir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		logDir: logDir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the upload pipeline: scan, skip already-uploaded, send, mark.
// Files that fail to parse or send are counted and logged but never abort the
// rest of the batch.
func (u *Uploader) Run() (*Stats, error) {
	entries, err := os.ReadDir(u.logDir)
	if err != nil {
		return &u.stats, fmt.Errorf("reading %s: %w", u.logDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	u.stats.FilesTotal = len(names)

	for _, name := range names {
		path := filepath.Join(u.logDir, name)
		if err := u.processFile(name, path); err != nil {
			u.stats.FilesErrored++
			u.log.Error("upload failed", "file", name, "error", err)
		}
	}
	return &u.stats, nil
}

func (u *Uploader) processFile(name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	uploaded, err := u.state.IsUploaded(name, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if uploaded {
		u.stats.FilesSkipped++
		u.log.Debug("already uploaded", "file", name)
		return nil
	}

	lf, err := ParseLogFile(path)
	if err != nil {
		return err
	}
	setCount := 0
	for _, ex := range lf.Exercises {
		setCount += len(ex.Sets)
	}

	if u.dryRun {
		u.log.Info("dry-run: would upload", "file", name, "sets", setCount)
		return nil
	}

	if err := u.client.SendLog(lf); err != nil {
		return err
	}
	if err := u.state.MarkUploaded(name, info.Size(), hash); err != nil {
		return fmt.Errorf("marking uploaded: %w", err)
	}

	u.stats.FilesUploaded++
	u.stats.SetsSent += setCount
	u.log.Info("uploaded", "file", name, "sets", setCount)
	return nil
}
