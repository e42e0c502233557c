package run

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"switchback/domain/core"
	"switchback/domain/metric"
)

// Manifest records what a run read, which analyses it ran and what it wrote
type Manifest struct {
	RunID       core.RunID         `json:"run_id"`
	Dataset     DatasetInfo        `json:"dataset"`
	Fares       metric.Fares       `json:"fares"`
	Analyses    []core.AnalysisKey `json:"analyses"`
	Artifacts   []Artifact         `json:"artifacts"`
	CodeVersion string             `json:"code_version"`
	Fingerprint RunFingerprint     `json:"fingerprint"`
	CreatedAt   core.Timestamp     `json:"created_at"`
	CompletedAt *core.Timestamp    `json:"completed_at,omitempty"`
}

// NewManifest starts a manifest for a fresh run
func NewManifest(dataset DatasetInfo, fares metric.Fares, analyses []core.AnalysisKey, codeVersion string) *Manifest {
	return &Manifest{
		RunID:       core.NewRunID(),
		Dataset:     dataset,
		Fares:       fares,
		Analyses:    analyses,
		CodeVersion: codeVersion,
		Fingerprint: NewRunFingerprint(dataset.Hash, fares, analyses, codeVersion),
		CreatedAt:   core.Now(),
	}
}

// AddArtifacts appends written files in the order given
func (m *Manifest) AddArtifacts(artifacts ...Artifact) {
	m.Artifacts = append(m.Artifacts, artifacts...)
}

// Complete stamps the completion time
func (m *Manifest) Complete() {
	now := core.Now()
	m.CompletedAt = &now
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("run manifest: run_id cannot be empty")
	}
	if m.Dataset.Hash == "" {
		return fmt.Errorf("run manifest: dataset hash cannot be empty")
	}
	if len(m.Analyses) == 0 {
		return fmt.Errorf("run manifest: no analyses recorded")
	}
	if m.CodeVersion == "" {
		return fmt.Errorf("run manifest: code_version cannot be empty")
	}
	if m.CreatedAt.IsZero() {
		return fmt.Errorf("run manifest: created_at cannot be empty")
	}
	if m.CompletedAt != nil && m.CompletedAt.Before(m.CreatedAt) {
		return fmt.Errorf("run manifest: completed_at is before created_at")
	}
	return nil
}

// WriteFile validates the manifest, stores it as indented JSON in dir and
// returns its artifact
func (m *Manifest) WriteFile(dir string) (Artifact, error) {
	if err := m.Validate(); err != nil {
		return Artifact{}, err
	}
	path := filepath.Join(dir, "manifest.json")
	art := Artifact{Kind: ArtifactManifest, Path: path}
	m.AddArtifacts(art)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write manifest: %w", err)
	}
	return art, nil
}

// ReadManifest loads a manifest written by WriteFile
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &m, nil
}
