package kernel

import (
	"github.com/rs/zerolog/log"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
	"github.com/scenarioforge/core/rng"
)

// distributionReservedKeys are node_data fields that describe the
// distribution itself rather than a sampler parameter, so they are
// excluded when the remaining fields are folded into
// DistributionConfig.Parameters.
var distributionReservedKeys = map[string]bool{
	"distributionType": true,
	"values":           true,
	"probabilities":    true,
}

// DistributionKernel samples once from the distribution named by
// node_data.distributionType, using the executor's shared RNG so the
// draw participates in the run's single reproducible stream.
func DistributionKernel(node *model.Node, _ map[string]expr.Value, ctx *expr.ExpressionContext) (map[string]expr.Value, error) {
	if ctx.RNG == nil {
		return nil, model.NewDomainError(model.ErrCodeKernelFailure, "distribution node requires an RNG in context", nil)
	}

	cfg := &model.DistributionConfig{
		Type:       getString(node.Data, "distributionType", "uniform"),
		Parameters: map[string]float64{},
	}
	for k, v := range node.Data {
		if distributionReservedKeys[k] {
			continue
		}
		if f, ok := toFloat(v); ok {
			cfg.Parameters[k] = f
		}
	}
	if vs, ok := node.Data["values"].([]any); ok {
		cfg.Values = toFloatSlice(vs)
	}
	if ps, ok := node.Data["probabilities"].([]any); ok {
		cfg.Probabilities = toFloatSlice(ps)
	}

	sample, shouldWarn, err := rng.Sample(cfg, ctx.RNG.Float64)
	if err != nil {
		return nil, model.NewNodeError(model.ErrCodeKernelFailure, node.NodeID, "distribution sampling failed", err)
	}
	if shouldWarn && rng.UnknownDistributionWarning(cfg.Type) {
		log.Warn().Str("nodeId", node.NodeID).Str("distributionType", cfg.Type).
			Msg("unknown distribution type, falling back to uniform[0,1)")
	}

	return map[string]expr.Value{
		"sample": expr.Number(sample),
	}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func toFloatSlice(vs []any) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if f, ok := toFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}
