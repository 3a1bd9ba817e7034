package heal

import (
	"fmt"

	"github.com/armature-dev/armature/internal/blueprint"
)

// healStructural applies the shape repairs in a fixed order: binding
// normalization, format markers, binding synthesis, terminal synthesis,
// origin hookup, and finally component field cleanup.
func (h *Healer) healStructural(raw blueprint.RawDocument, session *Session) Record {
	var record Record

	record = append(record, normalizeBindings(raw)...)
	record = append(record, ensureFormat(raw)...)
	record = append(record, h.proposeBindings(raw, session)...)
	record = append(record, h.ensureTerminal(raw)...)
	record = append(record, h.connectOrigins(raw, session)...)
	record = append(record, normalizeComponents(raw)...)

	return record
}

type rawNode struct {
	name         string
	kind         blueprint.ComponentKind
	terminalHint bool
}

func rawNodes(raw blueprint.RawDocument) []rawNode {
	comps := raw.Components()
	out := make([]rawNode, 0, len(comps))
	for _, comp := range comps {
		name, _ := comp["name"].(string)
		if name == "" {
			continue
		}
		typeStr, _ := comp["type"].(string)
		kind, _ := blueprint.KindOf(typeStr)
		hint, _ := comp["terminal_hint"].(bool)
		out = append(out, rawNode{name: name, kind: kind, terminalHint: hint})
	}
	return out
}

// sinkLike reports whether the component must never gain outgoing bindings:
// either its kind is terminal or the document hints it is.
func (h *Healer) sinkLike(node rawNode) bool {
	return node.terminalHint || h.matrix.Terminal(node.kind)
}

// rawDegrees counts distinct successor/predecessor pairs over the canonical
// binding entries.
func rawDegrees(raw blueprint.RawDocument) (outDeg, inDeg map[string]int) {
	outDeg = map[string]int{}
	inDeg = map[string]int{}
	seen := map[pair]struct{}{}

	for _, entry := range raw.Bindings() {
		binding, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		from, _ := binding["from_component"].(string)
		targets, _ := binding["to_components"].([]any)
		for _, target := range targets {
			to, _ := target.(string)
			if from == "" || to == "" {
				continue
			}
			p := pair{from: from, to: to}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			outDeg[from]++
			inDeg[to]++
		}
	}

	return outDeg, inDeg
}

// isStream reports whether the kind sits mid-stream: neither origin,
// terminal, orchestrator, nor endpoint.
func (h *Healer) isStream(kind blueprint.ComponentKind) bool {
	if kind == blueprint.KindController || kind == blueprint.KindAPIEndpoint {
		return false
	}
	return kind.Valid() && !h.matrix.Source(kind) && !h.matrix.Terminal(kind)
}

// plausibleFlow reports whether a data-flow relationship between the two
// kinds is worth proposing at all. The matrix still has the final say.
func (h *Healer) plausibleFlow(from, to blueprint.ComponentKind) bool {
	switch {
	case h.matrix.Source(from) && h.isStream(to):
		return true
	case h.matrix.Source(from) && h.matrix.Terminal(to):
		return true
	case h.isStream(from) && h.matrix.Terminal(to):
		return true
	case from == blueprint.KindAPIEndpoint && to == blueprint.KindStore:
		return true
	case from == blueprint.KindController && !h.matrix.Source(to):
		return true
	}
	return false
}

// proposeBindings synthesizes bindings between currently unconnected
// components whose kinds form a plausible flow. Every proposal is filtered
// through the matrix, and each (from, to) pair is decided at most once per
// session.
func (h *Healer) proposeBindings(raw blueprint.RawDocument, session *Session) Record {
	var record Record

	nodes := rawNodes(raw)
	outDeg, inDeg := rawDegrees(raw)

	// Existing pairs count as proposed so repeat passes stay idempotent.
	for _, entry := range raw.Bindings() {
		binding, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		from, _ := binding["from_component"].(string)
		targets, _ := binding["to_components"].([]any)
		for _, target := range targets {
			if to, _ := target.(string); to != "" && from != "" {
				session.markProposed(from, to)
			}
		}
	}

	for _, from := range nodes {
		if outDeg[from.name] > 0 || h.sinkLike(from) {
			continue
		}
		for _, to := range nodes {
			if from.name == to.name || inDeg[to.name] > 0 {
				continue
			}
			if session.decided(from.name, to.name) {
				continue
			}
			if !h.plausibleFlow(from.kind, to.kind) {
				continue
			}
			if !h.matrix.Allows(from.kind, to.kind) {
				session.markRejected(from.name, to.name)
				continue
			}

			h.appendBinding(raw, from.name, to.name)
			session.markProposed(from.name, to.name)
			outDeg[from.name]++
			inDeg[to.name]++
			record = append(record, fmt.Sprintf("synthesized binding %s -> %s", from.name, to.name))
			break
		}
	}

	return record
}

func (h *Healer) appendBinding(raw blueprint.RawDocument, from, to string) {
	bindings := raw.Bindings()
	raw.SetBindings(append(bindings, any(map[string]any{
		"from_component": from,
		"from_port":      "out",
		"to_components":  []any{any(to)},
		"to_ports":       []any{any("in")},
	})))
}

// ensureTerminal synthesizes a terminal component when the document has
// none: a Store when transformers or endpoints are present, a plain Sink
// otherwise.
func (h *Healer) ensureTerminal(raw blueprint.RawDocument) Record {
	nodes := rawNodes(raw)
	if len(nodes) == 0 {
		return nil
	}

	hasMidStream := false
	for _, node := range nodes {
		if h.sinkLike(node) {
			return nil
		}
		if node.kind == blueprint.KindTransformer || node.kind == blueprint.KindAPIEndpoint {
			hasMidStream = true
		}
	}

	name, kind := "default_sink", blueprint.KindSink
	if hasMidStream {
		name, kind = "primary_store", blueprint.KindStore
	}

	taken := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		taken[node.name] = struct{}{}
	}
	base := name
	for i := 2; ; i++ {
		if _, clash := taken[name]; !clash {
			break
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}

	raw.AppendComponent(map[string]any{
		"name": name,
		"type": string(kind),
	})

	return Record{fmt.Sprintf("synthesized terminal component %s (%s)", name, kind)}
}

// connectOrigins binds any origin component that still has no outgoing
// binding to the first available terminal component.
func (h *Healer) connectOrigins(raw blueprint.RawDocument, session *Session) Record {
	var record Record

	nodes := rawNodes(raw)
	outDeg, _ := rawDegrees(raw)

	var terminals []rawNode
	for _, node := range nodes {
		if h.sinkLike(node) {
			terminals = append(terminals, node)
		}
	}
	if len(terminals) == 0 {
		return nil
	}

	for _, origin := range nodes {
		if !h.matrix.Source(origin.kind) || origin.terminalHint || outDeg[origin.name] > 0 {
			continue
		}

		for _, terminal := range terminals {
			if session.decided(origin.name, terminal.name) {
				continue
			}
			if !h.matrix.Allows(origin.kind, terminal.kind) {
				session.markRejected(origin.name, terminal.name)
				continue
			}

			h.appendBinding(raw, origin.name, terminal.name)
			session.markProposed(origin.name, terminal.name)
			outDeg[origin.name]++
			record = append(record, fmt.Sprintf("connected origin %s to terminal %s", origin.name, terminal.name))
			break
		}
	}

	return record
}
