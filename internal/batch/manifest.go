package batch

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Index int    `json:"index"`
	Tick  int    `json:"tick"`
	Image string `json:"image"`
}

// Manifest describes one rendered animation.
type Manifest struct {
	RunID    string          `json:"run_id"`
	Model    string          `json:"model"`
	Clip     string          `json:"clip"`
	Duration int             `json:"duration"`
	Size     int             `json:"size"`
	Frames   []ManifestEntry `json:"frames"`
}

// NewManifest lists the successfully written frames under a fresh run id.
func NewManifest(model, clip string, duration, size int, results []Result) Manifest {
	m := Manifest{
		RunID:    uuid.New().String(),
		Model:    model,
		Clip:     clip,
		Duration: duration,
		Size:     size,
		Frames:   make([]ManifestEntry, 0, len(results)),
	}
	for _, r := range results {
		if !r.Success {
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Index: r.Index,
			Tick:  r.Tick,
			Image: filepath.Base(r.Path),
		})
	}
	return m
}

// WriteManifest writes the manifest as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
