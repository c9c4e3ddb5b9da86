package graph

import (
	"sort"

	"github.com/scenarioforge/core/model"
)

// nodeSeq is the (createdAt, id) tie-break key used by TopologicalSort.
type nodeSeq struct {
	id        string
	createdAt int64
}

// TopologicalSort returns node IDs in a deterministic topological
// order over the DATA_FLOW/DEPENDENCY/CONDITIONAL subgraph — FEEDBACK
// edges never participate, so a feedback loop never blocks a valid
// order. ok is false on a non-FEEDBACK cycle.
//
// Grounded on Kahn's algorithm (in-degree queue, as used by the
// teacher's WorkflowGraph.TopologicalSort), but with two differences
// the spec requires: incoming FEEDBACK edges are excluded from
// in-degree counting, and ties in the ready queue are broken by
// (createdAt, id) ascending rather than map iteration order, so the
// same graph always schedules identically.
func TopologicalSort(g *model.Graph) (order []string, ok bool) {
	nodes := make(map[string]nodeSeq, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.NodeID] = nodeSeq{id: n.NodeID, createdAt: n.CreatedAt}
	}

	forward := make(map[string][]string, len(g.Nodes))
	inDegree := make(map[string]int, len(g.Nodes))
	for id := range nodes {
		inDegree[id] = 0
	}
	for _, e := range g.Edges {
		if !e.Type.ParticipatesInOrdering() {
			continue
		}
		if _, ok := nodes[e.Source.NodeID]; !ok {
			continue
		}
		if _, ok := nodes[e.Target.NodeID]; !ok {
			continue
		}
		forward[e.Source.NodeID] = append(forward[e.Source.NodeID], e.Target.NodeID)
		inDegree[e.Target.NodeID]++
	}

	ready := make([]string, 0, len(nodes))
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sortByCreatedAt(ready, nodes)

	result := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		result = append(result, id)

		var newlyReady []string
		for _, next := range forward[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				newlyReady = append(newlyReady, next)
			}
		}
		sortByCreatedAt(newlyReady, nodes)
		ready = mergeSorted(ready, newlyReady, nodes)
	}

	if len(result) != len(nodes) {
		return nil, false
	}
	return result, true
}

func sortByCreatedAt(ids []string, nodes map[string]nodeSeq) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := nodes[ids[i]], nodes[ids[j]]
		if a.createdAt != b.createdAt {
			return a.createdAt < b.createdAt
		}
		return a.id < b.id
	})
}

// mergeSorted merges two already createdAt/id-sorted slices, keeping
// the result sorted so the ready queue's pop order stays deterministic
// across the whole run, not just within one batch.
func mergeSorted(a, b []string, nodes map[string]nodeSeq) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	less := func(x, y string) bool {
		nx, ny := nodes[x], nodes[y]
		if nx.createdAt != ny.createdAt {
			return nx.createdAt < ny.createdAt
		}
		return nx.id < ny.id
	}
	for i < len(a) && j < len(b) {
		if less(a[i], b[j]) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
