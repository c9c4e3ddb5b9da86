package subgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

func TestMapInputs_DirectMappingUsesInternalPortID(t *testing.T) {
	cfg := &model.SubgraphNodeConfig{
		PortMappings: []model.PortMapping{
			{ExternalPortID: "x", InternalPortID: "amount"},
		},
	}
	def := &model.SubgraphDefinition{
		ExposedInputPorts: []model.ExposedPort{
			{ExternalPortID: "x", InternalNodeID: "n1", InternalPortID: "p1"},
		},
	}
	nodeInputs := map[string]expr.Value{"amount": expr.Number(7)}

	overrides := mapInputs(cfg, def, nodeInputs)
	assert.Equal(t, 7.0, overrides["n1"]["p1"].ToNumber())
}

func TestMapInputs_NoMappingFallsBackToExternalPortID(t *testing.T) {
	cfg := &model.SubgraphNodeConfig{}
	def := &model.SubgraphDefinition{
		ExposedInputPorts: []model.ExposedPort{
			{ExternalPortID: "x", InternalNodeID: "n1", InternalPortID: "p1"},
		},
	}
	nodeInputs := map[string]expr.Value{"x": expr.Number(3)}

	overrides := mapInputs(cfg, def, nodeInputs)
	assert.Equal(t, 3.0, overrides["n1"]["p1"].ToNumber())
}

func TestMapInputs_AggregatedMeanCombinesSources(t *testing.T) {
	cfg := &model.SubgraphNodeConfig{
		PortMappings: []model.PortMapping{
			{
				ExternalPortID: "x",
				MappingType:    "aggregated",
				Aggregation:    model.AggregateMean,
				Sources: []model.AggregationSource{
					{SourceNodeID: "a", SourcePortID: "p_a"},
					{SourceNodeID: "b", SourcePortID: "p_b"},
				},
			},
		},
	}
	def := &model.SubgraphDefinition{
		ExposedInputPorts: []model.ExposedPort{
			{ExternalPortID: "x", InternalNodeID: "n1", InternalPortID: "p1"},
		},
	}
	nodeInputs := map[string]expr.Value{
		"p_a": expr.Number(10),
		"p_b": expr.Number(20),
	}

	overrides := mapInputs(cfg, def, nodeInputs)
	assert.Equal(t, 15.0, overrides["n1"]["p1"].ToNumber())
}

func TestMapOutputs_ReadsChildOutputsThroughExposedPorts(t *testing.T) {
	cfg := &model.SubgraphNodeConfig{}
	def := &model.SubgraphDefinition{
		ExposedOutputPorts: []model.ExposedPort{
			{ExternalPortID: "result", InternalNodeID: "n9", InternalPortID: "value"},
		},
	}
	childOutputs := map[string]map[string]expr.Value{
		"n9": {"value": expr.Number(42)},
	}

	out := mapOutputs(cfg, def, childOutputs)
	assert.Equal(t, 42.0, out["result"].ToNumber())
}

func TestMapOutputs_MissingInternalNodeYieldsNull(t *testing.T) {
	cfg := &model.SubgraphNodeConfig{}
	def := &model.SubgraphDefinition{
		ExposedOutputPorts: []model.ExposedPort{
			{ExternalPortID: "result", InternalNodeID: "missing", InternalPortID: "value"},
		},
	}
	out := mapOutputs(cfg, def, map[string]map[string]expr.Value{})
	assert.Equal(t, expr.KindNull, out["result"].Kind())
}

func TestAggregate_SumAndConcat(t *testing.T) {
	sources := []model.AggregationSource{{SourceNodeID: "a", SourcePortID: "p1"}, {SourceNodeID: "b", SourcePortID: "p2"}}
	nodeInputs := map[string]expr.Value{"p1": expr.Number(2), "p2": expr.Number(3)}

	sum := aggregate(model.AggregateSum, sources, nodeInputs)
	assert.Equal(t, 5.0, sum.ToNumber())

	strInputs := map[string]expr.Value{"p1": expr.String("a"), "p2": expr.String("b")}
	concat := aggregate(model.AggregateConcat, sources, strInputs)
	assert.Equal(t, "ab", expr.Stringify(concat))
}
