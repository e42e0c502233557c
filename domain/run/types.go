package run

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"switchback/domain/core"
	"switchback/domain/metric"
)

// ArtifactKind classifies a file written by a run
type ArtifactKind string

const (
	ArtifactSummaryCSV ArtifactKind = "summary_csv"
	ArtifactWorkbook   ArtifactKind = "workbook"
	ArtifactMarkdown   ArtifactKind = "markdown"
	ArtifactHTML       ArtifactKind = "html"
	ArtifactPNG        ArtifactKind = "png"
	ArtifactCharts     ArtifactKind = "charts"
	ArtifactManifest   ArtifactKind = "manifest"
)

// Artifact is one output file
type Artifact struct {
	Kind     ArtifactKind     `json:"kind"`
	Path     string           `json:"path"`
	Analysis core.AnalysisKey `json:"analysis,omitempty"`
}

// DatasetInfo identifies the input of a run
type DatasetInfo struct {
	Source string           `json:"source"`
	Format string           `json:"format"`
	Rows   int              `json:"rows"`
	Hash   core.DatasetHash `json:"hash"`
}

// RunFingerprint ties a run's results to its inputs: same data, fares and
// analyses always produce the same fingerprint
type RunFingerprint struct {
	DatasetHash core.DatasetHash   `json:"dataset_hash"`
	Fares       metric.Fares       `json:"fares"`
	Analyses    []core.AnalysisKey `json:"analyses"`
	CodeVersion string             `json:"code_version"`
	Fingerprint core.Hash          `json:"fingerprint"`
}

// NewRunFingerprint creates a fingerprint from the run inputs
func NewRunFingerprint(datasetHash core.DatasetHash, fares metric.Fares, analyses []core.AnalysisKey, codeVersion string) RunFingerprint {
	return RunFingerprint{
		DatasetHash: datasetHash,
		Fares:       fares,
		Analyses:    analyses,
		CodeVersion: codeVersion,
		Fingerprint: computeRunFingerprint(datasetHash, fares, analyses, codeVersion),
	}
}

func computeRunFingerprint(datasetHash core.DatasetHash, fares metric.Fares, analyses []core.AnalysisKey, codeVersion string) core.Hash {
	keys := make([]string, len(analyses))
	for i, a := range analyses {
		keys[i] = string(a)
	}
	sort.Strings(keys)

	data := fmt.Sprintf("dataset:%s|pool:%g|express:%g|analyses:%s|code:%s",
		datasetHash, fares.Pool, fares.Express, strings.Join(keys, ","), codeVersion)

	hash := sha256.Sum256([]byte(data))
	return core.Hash(fmt.Sprintf("%x", hash))
}
