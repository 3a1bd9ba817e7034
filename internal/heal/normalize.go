package heal

import (
	"fmt"
	"strings"

	"github.com/armature-dev/armature/internal/blueprint"
)

// Binding entries arrive in several accepted shapes: the canonical plural
// form, a singular to_component/to_port form, bare string targets, and a
// legacy dotted "component.port" string form. normalizeBindings rewrites
// them all into the canonical plural shape and drops entries it cannot make
// sense of.

func normalizeBindings(raw blueprint.RawDocument) Record {
	var record Record

	bindings := raw.Bindings()
	normalized := make([]any, 0, len(bindings))

	for i, entry := range bindings {
		binding, ops, ok := normalizeBinding(entry)
		if !ok {
			record = append(record, fmt.Sprintf("dropped malformed binding entry %d", i))
			continue
		}
		record = append(record, ops...)
		normalized = append(normalized, any(binding))
	}

	if len(normalized) > 0 || len(bindings) > 0 {
		raw.SetBindings(normalized)
	}

	return record
}

func normalizeBinding(entry any) (map[string]any, []string, bool) {
	var ops []string

	binding, ok := entry.(map[string]any)
	if !ok {
		// Legacy dotted string form: "feed.out -> archive.in".
		text, isString := entry.(string)
		if !isString {
			return nil, nil, false
		}
		parsed, ok := parseDottedBinding(text)
		if !ok {
			return nil, nil, false
		}
		return parsed, []string{fmt.Sprintf("normalized legacy binding %q", text)}, true
	}

	// Singular source form: from: "feed.out".
	if from, ok := binding["from"].(string); ok {
		comp, port := splitDotted(from)
		binding["from_component"] = comp
		if port != "" {
			binding["from_port"] = port
		}
		delete(binding, "from")
		ops = append(ops, fmt.Sprintf("normalized binding source %q", from))
	}

	// Singular target forms: to_component/to_port, or to as string/list.
	if target, ok := binding["to_component"].(string); ok {
		port, _ := binding["to_port"].(string)
		binding["to_components"] = []any{target}
		binding["to_ports"] = []any{port}
		delete(binding, "to_component")
		delete(binding, "to_port")
		ops = append(ops, fmt.Sprintf("normalized singular binding target %q", target))
	}

	if to, ok := binding["to"]; ok {
		switch tv := to.(type) {
		case string:
			comp, port := splitDotted(tv)
			binding["to_components"] = []any{comp}
			binding["to_ports"] = []any{port}
			ops = append(ops, fmt.Sprintf("normalized binding target %q", tv))
		case []any:
			var comps, ports []any
			for _, item := range tv {
				text, ok := item.(string)
				if !ok {
					return nil, nil, false
				}
				comp, port := splitDotted(text)
				comps = append(comps, comp)
				ports = append(ports, port)
			}
			binding["to_components"] = comps
			binding["to_ports"] = ports
			ops = append(ops, fmt.Sprintf("normalized %d binding targets", len(tv)))
		default:
			return nil, nil, false
		}
		delete(binding, "to")
	}

	fromComponent, _ := binding["from_component"].(string)
	if fromComponent == "" {
		return nil, nil, false
	}

	targets, ok := binding["to_components"].([]any)
	if !ok || len(targets) == 0 {
		return nil, nil, false
	}

	// Pad or default to_ports so the parallel arrays line up.
	ports, _ := binding["to_ports"].([]any)
	if len(ports) != len(targets) {
		padded := make([]any, len(targets))
		for i := range padded {
			if i < len(ports) {
				padded[i] = ports[i]
			} else {
				padded[i] = "in"
			}
		}
		binding["to_ports"] = padded
		ops = append(ops, fmt.Sprintf("aligned to_ports arity for binding from %q", fromComponent))
	}

	return binding, ops, true
}

func parseDottedBinding(text string) (map[string]any, bool) {
	parts := strings.Split(text, "->")
	if len(parts) != 2 {
		return nil, false
	}

	fromComp, fromPort := splitDotted(strings.TrimSpace(parts[0]))
	toComp, toPort := splitDotted(strings.TrimSpace(parts[1]))
	if fromComp == "" || toComp == "" {
		return nil, false
	}
	if toPort == "" {
		toPort = "in"
	}

	binding := map[string]any{
		"from_component": fromComp,
		"to_components":  []any{any(toComp)},
		"to_ports":       []any{any(toPort)},
	}
	if fromPort != "" {
		binding["from_port"] = fromPort
	}
	return binding, true
}

func splitDotted(s string) (component, port string) {
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		return s[:idx], s[idx+1:]
	}
	return s, ""
}

// normalizeComponents canonicalizes type casing and coerces malformed list
// fields to empty lists so later passes can rely on their shape.
func normalizeComponents(raw blueprint.RawDocument) Record {
	var record Record

	sys := raw.System()
	if _, ok := sys["components"].([]any); !ok {
		if _, present := sys["components"]; present {
			record = append(record, "coerced malformed components field to an empty list")
		}
		sys["components"] = []any{}
	}
	if _, ok := sys["bindings"].([]any); !ok {
		if _, present := sys["bindings"]; present {
			record = append(record, "coerced malformed bindings field to an empty list")
		}
		sys["bindings"] = []any{}
	}

	for _, comp := range raw.Components() {
		name, _ := comp["name"].(string)

		if typeStr, ok := comp["type"].(string); ok {
			if kind, known := blueprint.KindOf(typeStr); known && string(kind) != typeStr {
				comp["type"] = string(kind)
				record = append(record, fmt.Sprintf("normalized type casing %q -> %q on %s", typeStr, kind, name))
			}
		}

		for _, side := range []string{"inputs", "outputs"} {
			value, present := comp[side]
			if !present {
				continue
			}
			if _, ok := value.([]any); !ok {
				comp[side] = []any{}
				record = append(record, fmt.Sprintf("coerced malformed %s on %s to an empty list", side, name))
			}
		}
	}

	return record
}

// ensureFormat guarantees the version marker and a minimal policy block.
func ensureFormat(raw blueprint.RawDocument) Record {
	var record Record

	if _, ok := raw["version"].(string); !ok {
		raw["version"] = "1.0"
		record = append(record, "added missing version marker 1.0")
	}

	if _, ok := raw["policy"].(map[string]any); !ok {
		raw["policy"] = map[string]any{
			"delivery_guarantee": "at_least_once",
			"retry_limit":        3,
		}
		record = append(record, "added default policy block")
	}

	return record
}
