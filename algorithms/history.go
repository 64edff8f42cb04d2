package algorithms

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/evolvekit/evolvekit/core"
)

// ExportHistory configures periodic snapshots of the population: one JSON
// file in the destination directory every GenerationStep generations.
type ExportHistory struct {
	GenerationStep int
	Destination    string
}

// NewExportHistory validates the step and checks that the destination
// directory exists.
func NewExportHistory(generationStep int, destination string) (*ExportHistory, error) {
	if generationStep < 1 {
		return nil, &core.ValidationError{Field: "GenerationStep", Reason: "must be at least 1"}
	}
	info, err := os.Stat(destination)
	if err != nil {
		return nil, fmt.Errorf("the history destination %q is not accessible: %w", destination, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("the history destination %q is not a directory", destination)
	}
	return &ExportHistory{GenerationStep: generationStep, Destination: destination}, nil
}

// shouldExport implements the snapshot cadence: a snapshot is taken at
// generation g iff g mod GenerationStep == 0 and g > 0.
func (h *ExportHistory) shouldExport(generation int) bool {
	return generation > 0 && generation%h.GenerationStep == 0
}

// Elapsed is the run time split into hours, minutes and seconds for the
// snapshot metadata.
type Elapsed struct {
	Hours   uint64 `json:"hours"`
	Minutes uint64 `json:"minutes"`
	Seconds uint64 `json:"seconds"`
}

// NewElapsed splits a duration into its components.
func NewElapsed(d time.Duration) Elapsed {
	secs := uint64(d.Seconds())
	return Elapsed{
		Hours:   secs / 3600,
		Minutes: (secs / 60) % 60,
		Seconds: secs % 60,
	}
}

// Snapshot is the serialised state of a run at one generation. It is
// written by the history exporter and read back on resume.
type Snapshot struct {
	Options             any                     `json:"options"`
	Problem             core.ProblemExport      `json:"problem"`
	Individuals         []core.IndividualExport `json:"individuals"`
	Generation          int                     `json:"generation"`
	Algorithm           string                  `json:"algorithm"`
	Took                Elapsed                 `json:"took"`
	AdditionalData      map[string]any          `json:"additional_data,omitempty"`
	ExportedOn          string                  `json:"exported_on"`
	RunID               string                  `json:"run_id,omitempty"`
	Seed                uint64                  `json:"seed"`
	FunctionEvaluations int                     `json:"function_evaluations"`
	PRNGState           []byte                  `json:"prng_state,omitempty"`
}

// FileName returns the snapshot file name for an algorithm and
// generation.
func (s *Snapshot) FileName() string {
	return fmt.Sprintf("History_%s_gen%d.json", s.Algorithm, s.Generation)
}

// Save writes the snapshot into the directory as pretty-printed JSON.
// The write is atomic: data goes to a temporary file first and is then
// renamed into place.
func (s *Snapshot) Save(dir string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialise snapshot: %w", err)
	}

	finalPath := filepath.Join(dir, s.FileName())
	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp snapshot file: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by Save.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file %q: %w", path, err)
	}
	if snapshot.Algorithm == "" || snapshot.Individuals == nil {
		return nil, fmt.Errorf("the file %q is not a population snapshot", path)
	}
	return &snapshot, nil
}

// ListSnapshots returns the snapshot files in a directory sorted by
// generation. Files that fail to parse are skipped.
func ListSnapshots(dir string) ([]*Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var snapshots []*Snapshot
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		snapshot, err := LoadSnapshot(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Generation < snapshots[j].Generation
	})
	return snapshots, nil
}
