// Package subgraph resolves and executes SUBGRAPH nodes: looking up a
// reusable child Graph definition, mapping ports in and out, building
// the hierarchical ExpressionContext, and recursing into the exec
// package to run the child.
package subgraph

import (
	"strconv"
	"sync"

	"github.com/scenarioforge/core/model"
)

// Registry resolves a subgraph_id (and optional version) to its
// Definition. The core only defines an in-memory implementation; a
// host may provide its own backed by persistence.
type Registry interface {
	Get(id string, version int) (*model.SubgraphDefinition, bool)
	Put(def *model.SubgraphDefinition)
}

// InMemoryRegistry keeps definitions in a process-local map, keyed by
// id and (for non-zero versions) id@version, grounded on the teacher's
// repository-interface-plus-constructor-returned-struct pattern.
type InMemoryRegistry struct {
	mu    sync.RWMutex
	byID  map[string]*model.SubgraphDefinition
	byKey map[string]*model.SubgraphDefinition
}

// NewInMemoryRegistry builds an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		byID:  make(map[string]*model.SubgraphDefinition),
		byKey: make(map[string]*model.SubgraphDefinition),
	}
}

// Put installs or replaces a definition. The latest Put for a given id
// is what Get(id, 0) resolves to; a specific version stays addressable
// by id@version even after a newer Put.
func (r *InMemoryRegistry) Put(def *model.SubgraphDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[def.ID] = def
	if def.Version != 0 {
		r.byKey[versionKey(def.ID, def.Version)] = def
	}
}

// Get resolves id, preferring an exact version match when version != 0.
func (r *InMemoryRegistry) Get(id string, version int) (*model.SubgraphDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if version != 0 {
		if def, ok := r.byKey[versionKey(id, version)]; ok {
			return def, true
		}
	}
	def, ok := r.byID[id]
	return def, ok
}

func versionKey(id string, version int) string {
	return id + "@" + strconv.Itoa(version)
}
