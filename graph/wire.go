package graph

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scenarioforge/core/model"
)

// formatVersion is the wire envelope's schema version (§6 wire format:
// field names are normative).
const formatVersion = 1

// envelope is the normative export shape: the graph plus export
// metadata, never the bare graph value.
type envelope struct {
	Graph       *model.Graph `json:"graph" yaml:"graph"`
	ExportedAt  string       `json:"exportedAt" yaml:"exportedAt"`
	FormatVersion int        `json:"formatVersion" yaml:"formatVersion"`
}

// ExportJSON serializes g to its lossless JSON wire form.
func ExportJSON(g *model.Graph) ([]byte, error) {
	env := envelope{Graph: g, ExportedAt: time.Now().UTC().Format(time.RFC3339), FormatVersion: formatVersion}
	return json.Marshal(env)
}

// ImportJSON parses a graph previously produced by ExportJSON.
func ImportJSON(data []byte) (*model.Graph, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidInput, "invalid graph JSON", err)
	}
	if env.Graph == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidInput, "invalid graph JSON: missing graph field", nil)
	}
	restoreSeq(env.Graph)
	return env.Graph, nil
}

// ExportYAML serializes g to YAML, using the same envelope as
// ExportJSON.
func ExportYAML(g *model.Graph) ([]byte, error) {
	env := envelope{Graph: g, ExportedAt: time.Now().UTC().Format(time.RFC3339), FormatVersion: formatVersion}
	return yaml.Marshal(env)
}

// ImportYAML parses a graph from YAML.
func ImportYAML(data []byte) (*model.Graph, error) {
	var env envelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidInput, "invalid graph YAML", err)
	}
	if env.Graph == nil {
		return nil, model.NewDomainError(model.ErrCodeInvalidInput, "invalid graph YAML: missing graph field", nil)
	}
	restoreSeq(env.Graph)
	return env.Graph, nil
}

// restoreSeq re-seeds the graph's internal sequence counter (unexported,
// so never round-trips through JSON/YAML) above every CreatedAt already
// present, so nodes/edges added after an import still sort after
// everything that was imported.
func restoreSeq(g *model.Graph) {
	var max int64
	for _, n := range g.Nodes {
		if n.CreatedAt > max {
			max = n.CreatedAt
		}
	}
	for _, e := range g.Edges {
		if e.CreatedAt > max {
			max = e.CreatedAt
		}
	}
	for i := int64(0); i < max; i++ {
		g.NextSeq()
	}
}
