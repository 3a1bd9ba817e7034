package blueprint

// Port inference fills in ports a document omitted, from two sources: the
// per-kind default templates below and the ports implied by the names that
// bindings already reference. It only ever adds ports; existing ports are
// never removed or renamed, so running it again is a no-op.

type portTemplate struct {
	inputs  []map[string]any
	outputs []map[string]any
}

func defaultPorts(kind ComponentKind) portTemplate {
	switch kind {
	case KindSource:
		return portTemplate{outputs: []map[string]any{{"name": "out", "schema": "record"}}}
	case KindEventSource:
		return portTemplate{outputs: []map[string]any{{"name": "out", "schema": "event"}}}
	case KindTransformer, KindFilter, KindRouter, KindAggregator, KindStreamProcessor, KindController:
		return portTemplate{
			inputs:  []map[string]any{{"name": "in", "schema": "record"}},
			outputs: []map[string]any{{"name": "out", "schema": "record"}},
		}
	case KindAPIEndpoint:
		return portTemplate{
			inputs: []map[string]any{{
				"name":             "request",
				"schema":           "request",
				"boundary_ingress": true,
				"reply_required":   true,
			}},
			outputs: []map[string]any{{
				"name":            "response",
				"schema":          "response",
				"boundary_egress": true,
				"satisfies_reply": true,
			}},
		}
	case KindStore, KindSink:
		return portTemplate{inputs: []map[string]any{{"name": "in", "schema": "record"}}}
	default:
		return portTemplate{}
	}
}

// InferPorts populates missing ports on every component of the raw working
// document and returns it for chaining.
func InferPorts(raw RawDocument) RawDocument {
	implied := impliedPorts(raw)

	for _, comp := range raw.Components() {
		name, _ := comp["name"].(string)
		typeStr, _ := comp["type"].(string)
		kind, _ := KindOf(typeStr)
		terminalHint, _ := comp["terminal_hint"].(bool)

		template := defaultPorts(kind)
		if len(rawPorts(comp, "inputs")) == 0 {
			for _, port := range template.inputs {
				addPort(comp, "inputs", port)
			}
		}
		// A terminal-hinted component declares itself sink-like; giving it
		// outputs would contradict the hint.
		if !terminalHint && len(rawPorts(comp, "outputs")) == 0 {
			for _, port := range template.outputs {
				addPort(comp, "outputs", port)
			}
		}

		for _, portName := range implied[name].inputs {
			ensurePort(comp, "inputs", portName)
		}
		if !terminalHint {
			for _, portName := range implied[name].outputs {
				ensurePort(comp, "outputs", portName)
			}
		}
	}

	return raw
}

type impliedSet struct {
	inputs  []string
	outputs []string
}

// impliedPorts collects the port names bindings refer to, keyed by component.
func impliedPorts(raw RawDocument) map[string]impliedSet {
	out := make(map[string]impliedSet)

	for _, entry := range raw.Bindings() {
		binding, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		from, _ := binding["from_component"].(string)
		fromPort, _ := binding["from_port"].(string)
		if from != "" && fromPort != "" {
			set := out[from]
			set.outputs = append(set.outputs, fromPort)
			out[from] = set
		}

		targets, _ := binding["to_components"].([]any)
		ports, _ := binding["to_ports"].([]any)
		for i, target := range targets {
			targetName, _ := target.(string)
			if targetName == "" || i >= len(ports) {
				continue
			}
			portName, _ := ports[i].(string)
			if portName == "" {
				continue
			}
			set := out[targetName]
			set.inputs = append(set.inputs, portName)
			out[targetName] = set
		}
	}

	return out
}

func rawPorts(comp map[string]any, side string) []any {
	ports, _ := comp[side].([]any)
	return ports
}

func addPort(comp map[string]any, side string, port map[string]any) {
	ports := rawPorts(comp, side)
	comp[side] = append(ports, any(cloneValue(port)))
}

func ensurePort(comp map[string]any, side, name string) {
	for _, entry := range rawPorts(comp, side) {
		if port, ok := entry.(map[string]any); ok {
			if portName, _ := port["name"].(string); portName == name {
				return
			}
		}
	}
	addPort(comp, side, map[string]any{"name": name, "schema": "any"})
}
