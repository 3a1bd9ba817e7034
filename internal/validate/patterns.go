package validate

import (
	"fmt"

	"github.com/armature-dev/armature/internal/blueprint"
	"github.com/armature-dev/armature/internal/graph"
)

// Pattern is the heuristic shape the classifier assigns to a graph.
type Pattern string

const (
	PatternPipeline        Pattern = "pipeline"
	PatternRequestResponse Pattern = "request_response"
	PatternFanOut          Pattern = "fan_out"
	PatternFanIn           Pattern = "fan_in"
	PatternUnknown         Pattern = "unknown"
)

// classifyPattern assigns a coarse architectural shape and emits it as an
// informational issue; an unknown shape earns a restructuring warning. The
// per-pattern sub-checks are intentionally permissive and reject nothing.
func (v *Validator) classifyPattern(g *graph.Graph) Issues {
	pattern := v.classify(g)

	if pattern == PatternUnknown {
		return Issues{{
			Kind:       KindPattern,
			Severity:   SeverityWarning,
			Message:    "graph matches no recognized architectural pattern",
			Suggestion: "restructure toward a pipeline, request/response, fan-out, or fan-in shape",
		}}
	}

	return Issues{{
		Kind:     KindPattern,
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("graph classified as %s", pattern),
	}}
}

func (v *Validator) classify(g *graph.Graph) Pattern {
	for _, node := range g.Nodes() {
		if node.Kind == blueprint.KindAPIEndpoint {
			return PatternRequestResponse
		}
	}

	for _, node := range g.Nodes() {
		if g.OutDegree(node.Name) > v.thresholds.FanOut {
			return PatternFanOut
		}
	}
	for _, node := range g.Nodes() {
		if g.InDegree(node.Name) > v.thresholds.FanIn {
			return PatternFanIn
		}
	}

	// A pipeline has roughly one edge per node: a chain of N nodes carries
	// N-1 edges, modest branching still counts.
	edges, nodes := g.EdgeCount(), g.NodeCount()
	if edges > 0 && nodes > 1 && abs(edges-nodes) <= 1 {
		return PatternPipeline
	}

	return PatternUnknown
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
