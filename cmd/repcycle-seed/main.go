package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meltforce/repcycle/internal/config"
	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/storage"
)

type catalogFile struct {
	Exercises []catalogEntry `yaml:"exercises"`
}

type catalogEntry struct {
	Name        string `yaml:"name"`
	MuscleGroup string `yaml:"muscle_group"`
	Equipment   string `yaml:"equipment"`
	IsCompound  bool   `yaml:"is_compound"`
	FormCues    string `yaml:"form_cues"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	catalogPath := flag.String("catalog", "seed/exercises.yaml", "path to exercise catalog YAML")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	catalog, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	seeded := 0
	for _, entry := range catalog.Exercises {
		_, err := db.UpsertExercise(ctx, models.Exercise{
			Name:        entry.Name,
			MuscleGroup: entry.MuscleGroup,
			Equipment:   entry.Equipment,
			IsCompound:  entry.IsCompound,
			FormCues:    entry.FormCues,
		})
		if err != nil {
			log.Error("upsert failed", "exercise", entry.Name, "error", err)
			os.Exit(1)
		}
		seeded++
	}
	log.Info("catalog seeded", "exercises", seeded)
}

func loadCatalog(path string) (*catalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(catalog.Exercises) == 0 {
		return nil, fmt.Errorf("%s: no exercises", path)
	}
	for _, e := range catalog.Exercises {
		if e.Name == "" || e.MuscleGroup == "" {
			return nil, fmt.Errorf("%s: exercise entries need name and muscle_group", path)
		}
	}
	return &catalog, nil
}
