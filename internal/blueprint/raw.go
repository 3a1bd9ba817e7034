package blueprint

import (
	"gopkg.in/yaml.v3"
)

// RawDocument is the mutable working form of a blueprint: the generic YAML
// tree the healer rewrites between parses. Typed Documents are derived from
// it and never mutated in place.
type RawDocument map[string]any

// RawFromYAML decodes YAML bytes into a RawDocument.
func RawFromYAML(data []byte) (RawDocument, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return RawDocument(raw), nil
}

// ToYAML serializes the raw document back to YAML bytes.
func (r RawDocument) ToYAML() ([]byte, error) {
	return yaml.Marshal(map[string]any(r))
}

// Clone produces a deep copy so one healing attempt can be rolled back
// without disturbing the working document.
func (r RawDocument) Clone() RawDocument {
	return RawDocument(cloneValue(map[string]any(r)).(map[string]any))
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, val := range tv {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, val := range tv {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// System returns the system block, creating it when absent.
func (r RawDocument) System() map[string]any {
	if sys, ok := r["system"].(map[string]any); ok {
		return sys
	}
	sys := map[string]any{}
	r["system"] = sys
	return sys
}

// Name returns the declared system name, or "" when missing.
func (r RawDocument) Name() string {
	name, _ := r.System()["name"].(string)
	return name
}

// Components returns the raw component list. Non-map entries are skipped.
func (r RawDocument) Components() []map[string]any {
	items, _ := r.System()["components"].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// AppendComponent adds a raw component entry to the system block.
func (r RawDocument) AppendComponent(component map[string]any) {
	sys := r.System()
	items, _ := sys["components"].([]any)
	sys["components"] = append(items, any(component))
}

// Bindings returns the raw binding list as-is, including malformed entries;
// the structural healer is responsible for cleaning it up.
func (r RawDocument) Bindings() []any {
	items, _ := r.System()["bindings"].([]any)
	return items
}

// SetBindings replaces the binding list.
func (r RawDocument) SetBindings(bindings []any) {
	r.System()["bindings"] = bindings
}

// ComponentKind reports the resolved kind of the named raw component.
func (r RawDocument) ComponentKind(name string) (ComponentKind, bool) {
	for _, comp := range r.Components() {
		if compName, _ := comp["name"].(string); compName == name {
			typeStr, _ := comp["type"].(string)
			return KindOf(typeStr)
		}
	}
	return "", false
}
