package exec

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/kernel"
	"github.com/scenarioforge/core/model"
)

// SensitivityConfig describes a one-variable sweep: vary the node
// identified by ParameterNodeID's ParameterField across [Lo,Hi] in
// Steps evenly-spaced points, running a deterministic pass per point
// and reading OutputNodeID's OutputKey.
type SensitivityConfig struct {
	ParameterNodeID string
	ParameterField  string
	OutputNodeID    string
	OutputKey       string
	Lo, Hi          float64
	Steps           int
}

// DataPoint is one (input, output) sample from a sweep.
type DataPoint struct {
	Input  float64
	Output float64
}

// SensitivityResult is the fitted line over the sweep's data points.
type SensitivityResult struct {
	Success    bool
	Error      string
	DataPoints []DataPoint
	Slope      float64
	RSquared   float64
	Elasticity float64
}

// RunSensitivity sweeps cfg.ParameterField on cfg.ParameterNodeID over
// cfg.Steps points in [cfg.Lo,cfg.Hi], re-running the deterministic
// pipeline for each point and fitting a line through the resulting
// (input, output) pairs.
func RunSensitivity(g *model.Graph, globalParams map[string]any, registry *kernel.Registry, seed *uint64, cfg SensitivityConfig) *SensitivityResult {
	steps := cfg.Steps
	if steps < 1 {
		steps = 1
	}

	points := make([]DataPoint, 0, steps)
	for k := 0; k < steps; k++ {
		var x float64
		if steps == 1 {
			x = cfg.Lo
		} else {
			x = cfg.Lo + float64(k)*(cfg.Hi-cfg.Lo)/float64(steps-1)
		}

		swept := graphWithField(g, cfg.ParameterNodeID, cfg.ParameterField, x)
		res := Execute(swept, globalParams, registry, seed)
		if !res.Success {
			return &SensitivityResult{Success: false, Error: res.Error}
		}

		outs, ok := res.OutputsByNode[cfg.OutputNodeID]
		if !ok {
			return &SensitivityResult{Success: false, Error: "output node '" + cfg.OutputNodeID + "' produced no outputs"}
		}
		v, ok := outs[cfg.OutputKey]
		if !ok || v.Kind() != expr.KindNumber {
			return &SensitivityResult{Success: false, Error: "output key '" + cfg.OutputKey + "' is not numeric"}
		}
		points = append(points, DataPoint{Input: x, Output: v.ToNumber()})
	}

	slope, rSquared := linearFit(points)
	meanIn, meanOut := meanPoints(points)
	elasticity := 0.0
	if meanOut != 0 {
		elasticity = slope * (meanIn / meanOut)
	}

	return &SensitivityResult{
		Success:    true,
		DataPoints: points,
		Slope:      slope,
		RSquared:   rSquared,
		Elasticity: elasticity,
	}
}

// graphWithField returns a shallow copy of g with nodeID's field set to
// value in its Data map — the sweep never mutates the caller's graph.
func graphWithField(g *model.Graph, nodeID, field string, value float64) *model.Graph {
	out := *g
	out.Nodes = make([]model.Node, len(g.Nodes))
	copy(out.Nodes, g.Nodes)
	for i := range out.Nodes {
		if out.Nodes[i].NodeID != nodeID {
			continue
		}
		data := make(map[string]any, len(out.Nodes[i].Data)+1)
		for k, v := range out.Nodes[i].Data {
			data[k] = v
		}
		data[field] = value
		out.Nodes[i].Data = data
	}
	return &out
}

func linearFit(points []DataPoint) (slope, rSquared float64) {
	n := float64(len(points))
	if n < 2 {
		return 0, 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.Input
		sumY += p.Output
		sumXY += p.Input * p.Output
		sumXX += p.Input * p.Input
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for _, p := range points {
		pred := slope*p.Input + intercept
		ssRes += (p.Output - pred) * (p.Output - pred)
		ssTot += (p.Output - meanY) * (p.Output - meanY)
	}
	if ssTot == 0 {
		rSquared = 1
	} else {
		rSquared = 1 - ssRes/ssTot
	}
	return slope, rSquared
}

func meanPoints(points []DataPoint) (meanIn, meanOut float64) {
	for _, p := range points {
		meanIn += p.Input
		meanOut += p.Output
	}
	n := float64(len(points))
	return meanIn / n, meanOut / n
}
