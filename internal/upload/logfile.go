package upload

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LogFile is one workout recorded offline as YAML, the format the uploader
// scans for. Exercises reference the catalog by name.
type LogFile struct {
	Name      string            `yaml:"name"`
	StartedAt time.Time         `yaml:"started_at"`
	EndedAt   *time.Time        `yaml:"ended_at,omitempty"`
	Notes     string            `yaml:"notes,omitempty"`
	Exercises []LogFileExercise `yaml:"exercises"`
}

// LogFileExercise groups the sets performed for one exercise.
type LogFileExercise struct {
	Name string       `yaml:"name"`
	Sets []LogFileSet `yaml:"sets"`
}

// LogFileSet is one performed set.
type LogFileSet struct {
	WeightKg float64 `yaml:"weight_kg"`
	Reps     int     `yaml:"reps"`
	Warmup   bool    `yaml:"warmup,omitempty"`
}

// ParseLogFile reads and validates a workout log YAML file.
func ParseLogFile(path string) (*LogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var lf LogFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if lf.StartedAt.IsZero() {
		return nil, fmt.Errorf("%s: started_at is required", path)
	}
	if len(lf.Exercises) == 0 {
		return nil, fmt.Errorf("%s: no exercises", path)
	}
	for _, ex := range lf.Exercises {
		if ex.Name == "" {
			return nil, fmt.Errorf("%s: exercise without a name", path)
		}
		for _, set := range ex.Sets {
			if set.Reps <= 0 {
				return nil, fmt.Errorf("%s: %s has a set with no reps", path, ex.Name)
			}
		}
	}
	return &lf, nil
}
