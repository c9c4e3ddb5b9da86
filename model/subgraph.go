package model

// SubgraphScope selects where a subgraph's definition is resolved
// from and whether its failures bubble to the parent node.
type SubgraphScope string

const (
	ScopeLocal   SubgraphScope = "local"
	ScopeShared  SubgraphScope = "shared"
	ScopeLibrary SubgraphScope = "library"
)

// SubgraphExecutionMode selects how a SUBGRAPH node's child graph runs
// relative to the parent's schedule.
type SubgraphExecutionMode string

const (
	SubgraphInline   SubgraphExecutionMode = "inline"
	SubgraphIsolated SubgraphExecutionMode = "isolated"
	SubgraphParallel SubgraphExecutionMode = "parallel"
	SubgraphLazy     SubgraphExecutionMode = "lazy"
)

// AggregationMethod combines multiple source values into one mapped
// input when a PortMapping's MappingType is "aggregated".
type AggregationMethod string

const (
	AggregateSum    AggregationMethod = "sum"
	AggregateMean   AggregationMethod = "mean"
	AggregateMin    AggregationMethod = "min"
	AggregateMax    AggregationMethod = "max"
	AggregateConcat AggregationMethod = "concat"
	AggregateMerge  AggregationMethod = "merge"
)

// AggregationSource names one (node, port) pair an aggregated mapping
// draws a value from — field names match spec §4.7's
// "(source_node_id, source_port_id)" list verbatim.
type AggregationSource struct {
	SourceNodeID string `json:"source_node_id" yaml:"source_node_id"`
	SourcePortID string `json:"source_port_id" yaml:"source_port_id"`
}

// PortMapping binds an external SUBGRAPH-node port to a port inside
// the child graph, with an optional per-value transform expression.
// Field names match spec §4.7's node-data field names verbatim, since
// this struct is decoded straight from the open node.Data map.
type PortMapping struct {
	ExternalPortID string              `json:"external_port_id" yaml:"external_port_id"`
	InternalPortID string              `json:"internal_port_id" yaml:"internal_port_id"`
	Transform      string              `json:"transform,omitempty" yaml:"transform,omitempty"`
	MappingType    string              `json:"mappingType,omitempty" yaml:"mappingType,omitempty"` // "" / "direct" or "aggregated"
	Aggregation    AggregationMethod   `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	Sources        []AggregationSource `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// ExposedPort names one internal node+port a subgraph definition makes
// visible to the outside world under an external id.
type ExposedPort struct {
	ExternalPortID string `json:"external_port_id" yaml:"external_port_id"`
	InternalNodeID string `json:"internal_node_id" yaml:"internal_node_id"`
	InternalPortID string `json:"internal_port_id" yaml:"internal_port_id"`
}

// SubgraphDefinition is a reusable child Graph plus the ports it
// exposes to any SUBGRAPH node that references it.
type SubgraphDefinition struct {
	ID       string `json:"id" yaml:"id"`
	Version  int    `json:"version" yaml:"version"`
	Graph    *Graph `json:"graph" yaml:"graph"`

	ExposedInputPorts  []ExposedPort `json:"exposed_input_ports,omitempty" yaml:"exposed_input_ports,omitempty"`
	ExposedOutputPorts []ExposedPort `json:"exposed_output_ports,omitempty" yaml:"exposed_output_ports,omitempty"`
	// BubbleErrors, when true, fails the parent SUBGRAPH node on a
	// child error instead of surfacing {error: message} as output —
	// spec §4.7's `scope.bubbleErrors`.
	BubbleErrors bool `json:"bubbleErrors,omitempty" yaml:"bubbleErrors,omitempty"`
}

// SubgraphNodeConfig is the decoded shape of a SUBGRAPH node's Data
// map (spec §4.7): which definition to run, with what instance
// parameters, mapped through which ports, and in what mode.
type SubgraphNodeConfig struct {
	SubgraphID     string                `json:"subgraph_id" yaml:"subgraph_id"`
	Version        int                   `json:"version,omitempty" yaml:"version,omitempty"`
	Scope          SubgraphScope         `json:"scope,omitempty" yaml:"scope,omitempty"`
	InstanceParams map[string]any        `json:"instance_params,omitempty" yaml:"instance_params,omitempty"`
	PortMappings   []PortMapping         `json:"port_mappings,omitempty" yaml:"port_mappings,omitempty"`
	ExecutionMode  SubgraphExecutionMode `json:"execution_mode,omitempty" yaml:"execution_mode,omitempty"`
}
