package subgraph

import (
	"github.com/scenarioforge/core/expr"
	"github.com/scenarioforge/core/model"
)

// mapInputs builds the child graph's $params overlay: for each
// exposed input port, resolve its PortMapping (direct or aggregated)
// against the SUBGRAPH node's already-gathered inputs and instance
// params, then land the result on the named internal node+port via a
// synthetic override the child run picks up as a PARAMETER/CONSTANT
// seed. Returned as nodeID -> portName -> value so the caller can
// inject it into the child graph's nodes before executing.
func mapInputs(cfg *model.SubgraphNodeConfig, def *model.SubgraphDefinition, nodeInputs map[string]expr.Value) map[string]map[string]expr.Value {
	mappingByExternal := make(map[string]model.PortMapping, len(cfg.PortMappings))
	for _, m := range cfg.PortMappings {
		mappingByExternal[m.ExternalPortID] = m
	}

	overrides := make(map[string]map[string]expr.Value)

	for _, exposed := range def.ExposedInputPorts {
		mapping, hasMapping := mappingByExternal[exposed.ExternalPortID]

		var value expr.Value
		switch {
		case hasMapping && mapping.MappingType == "aggregated":
			value = aggregate(mapping.Aggregation, mapping.Sources, nodeInputs)
		case hasMapping:
			value = resolveExternal(mapping.InternalPortID, exposed.ExternalPortID, nodeInputs)
		default:
			value = resolveExternal(exposed.ExternalPortID, exposed.ExternalPortID, nodeInputs)
		}

		if overrides[exposed.InternalNodeID] == nil {
			overrides[exposed.InternalNodeID] = make(map[string]expr.Value)
		}
		overrides[exposed.InternalNodeID][exposed.InternalPortID] = value
	}

	return overrides
}

// resolveExternal looks up an external port's bound value among the
// SUBGRAPH node's gathered inputs, trying the mapping's declared
// internal id first and falling back to the port's own external id —
// nodeInputs is keyed by port name, matching gatherInputs' convention.
func resolveExternal(preferredKey, fallbackKey string, nodeInputs map[string]expr.Value) expr.Value {
	if v, ok := nodeInputs[preferredKey]; ok {
		return v
	}
	if v, ok := nodeInputs[fallbackKey]; ok {
		return v
	}
	return expr.Null()
}

// aggregate combines every source's already-resolved value (found
// under each source's SourcePortID key in nodeInputs) using method.
func aggregate(method model.AggregationMethod, sources []model.AggregationSource, nodeInputs map[string]expr.Value) expr.Value {
	values := make([]expr.Value, 0, len(sources))
	for _, s := range sources {
		if v, ok := nodeInputs[s.SourcePortID]; ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return expr.Null()
	}

	switch method {
	case model.AggregateSum:
		sum := 0.0
		for _, v := range values {
			sum += v.ToNumber()
		}
		return expr.Number(sum)
	case model.AggregateMean:
		sum := 0.0
		for _, v := range values {
			sum += v.ToNumber()
		}
		return expr.Number(sum / float64(len(values)))
	case model.AggregateMin:
		min := values[0].ToNumber()
		for _, v := range values[1:] {
			if n := v.ToNumber(); n < min {
				min = n
			}
		}
		return expr.Number(min)
	case model.AggregateMax:
		max := values[0].ToNumber()
		for _, v := range values[1:] {
			if n := v.ToNumber(); n > max {
				max = n
			}
		}
		return expr.Number(max)
	case model.AggregateConcat:
		s := ""
		for _, v := range values {
			s += expr.Stringify(v)
		}
		return expr.String(s)
	case model.AggregateMerge:
		merged := make(map[string]expr.Value)
		for _, v := range values {
			if v.Kind() != expr.KindObject {
				continue
			}
			for k, fv := range v.Fields() {
				merged[k] = fv
			}
		}
		return expr.Object(merged)
	default:
		return values[len(values)-1]
	}
}

// mapOutputs reads the child run's captured outputs back through the
// definition's exposed output ports and the node's port_mappings,
// producing the SUBGRAPH node's own output map (keyed by external port
// name, matching every other kernel's output convention). The child's
// outputs are keyed by port name, so InternalPortID is resolved to the
// internal node's output port name first.
func mapOutputs(cfg *model.SubgraphNodeConfig, def *model.SubgraphDefinition, childOutputs map[string]map[string]expr.Value) map[string]expr.Value {
	out := make(map[string]expr.Value, len(def.ExposedOutputPorts))
	for _, exposed := range def.ExposedOutputPorts {
		key := exposed.InternalPortID
		if def.Graph != nil {
			if n, _, ok := def.Graph.NodeByID(exposed.InternalNodeID); ok {
				if p, ok := n.OutputPort(exposed.InternalPortID); ok {
					key = p.Name
				}
			}
		}
		v := expr.Null()
		if byPort, ok := childOutputs[exposed.InternalNodeID]; ok {
			if fv, ok := byPort[key]; ok {
				v = fv
			}
		}
		out[exposed.ExternalPortID] = v
	}
	return out
}
