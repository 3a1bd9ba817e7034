package heal

import (
	"fmt"

	"github.com/armature-dev/armature/internal/blueprint"
)

// healSchema reconciles schema labels across bindings. When a source and
// destination port disagree and no transformation is declared, a synthetic
// transformation label is injected. The label is a reconciliation marker,
// not a behavioral guarantee, so the injection is logged at warn level.
func (h *Healer) healSchema(raw blueprint.RawDocument) Record {
	var record Record

	schemas := portSchemas(raw)

	for _, entry := range raw.Bindings() {
		binding, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if declared, _ := binding["transformation"].(string); declared != "" {
			continue
		}

		from, _ := binding["from_component"].(string)
		fromPort, _ := binding["from_port"].(string)
		fromSchema, ok := schemas.lookup(from, "outputs", fromPort)
		if !ok {
			continue
		}

		targets, _ := binding["to_components"].([]any)
		ports, _ := binding["to_ports"].([]any)

		for i, target := range targets {
			to, _ := target.(string)
			toPort := ""
			if i < len(ports) {
				toPort, _ = ports[i].(string)
			}

			toSchema, ok := schemas.lookup(to, "inputs", toPort)
			if !ok {
				continue
			}
			if blueprint.SchemasCompatible(fromSchema, toSchema) {
				continue
			}

			label := fmt.Sprintf("convert_%s_to_%s",
				blueprint.NormalizeSchemaRef(fromSchema), blueprint.NormalizeSchemaRef(toSchema))
			binding["transformation"] = label

			op := fmt.Sprintf("injected transformation %s on binding %s -> %s", label, from, to)
			record = append(record, op)
			h.log.Warn(op + " (label only, conversion semantics unverified)")
			break
		}
	}

	return record
}

// schemaIndex maps component -> port side -> port name -> schema label.
type schemaIndex map[string]map[string]map[string]string

func (s schemaIndex) lookup(component, side, port string) (string, bool) {
	sides, ok := s[component]
	if !ok {
		return "", false
	}
	ports, ok := sides[side]
	if !ok || len(ports) == 0 {
		return "", false
	}
	if port == "" {
		// Fall back to the only port when the binding leaves it implicit.
		if len(ports) == 1 {
			for _, schema := range ports {
				return schema, true
			}
		}
		return "", false
	}
	schema, ok := ports[port]
	return schema, ok
}

func portSchemas(raw blueprint.RawDocument) schemaIndex {
	index := schemaIndex{}

	for _, comp := range raw.Components() {
		name, _ := comp["name"].(string)
		if name == "" {
			continue
		}
		index[name] = map[string]map[string]string{}

		for _, side := range []string{"inputs", "outputs"} {
			ports, _ := comp[side].([]any)
			table := map[string]string{}
			for _, entry := range ports {
				port, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				portName, _ := port["name"].(string)
				schema, _ := port["schema"].(string)
				if portName != "" {
					table[portName] = schema
				}
			}
			index[name][side] = table
		}
	}

	return index
}
