package validate

import (
	"fmt"
	"strings"

	"github.com/armature-dev/armature/internal/blueprint"
	"github.com/armature-dev/armature/internal/connectivity"
	"github.com/armature-dev/armature/internal/graph"
)

// Thresholds tunes the heuristic passes. The classifier cut-offs are coarse
// by intent; treat them as knobs, not law.
type Thresholds struct {
	FanOut           int // out-degree above which the graph reads as fan-out
	FanIn            int // in-degree above which the graph reads as fan-in
	RouterSuggestion int // out-degree above which a router is suggested
}

// DefaultThresholds returns the standard heuristic settings.
func DefaultThresholds() Thresholds {
	return Thresholds{FanOut: 2, FanIn: 2, RouterSuggestion: 3}
}

// Validator runs the architectural passes over a typed document. It holds
// no per-run state and is safe for concurrent use across documents sharing
// the same matrix.
type Validator struct {
	matrix     *connectivity.Matrix
	thresholds Thresholds
}

// NewValidator constructs a Validator around an explicit matrix reference.
func NewValidator(matrix *connectivity.Matrix, thresholds Thresholds) *Validator {
	return &Validator{matrix: matrix, thresholds: thresholds}
}

// Validate runs every pass in order and concatenates their findings. The
// document is never mutated.
func (v *Validator) Validate(doc *blueprint.Document) Issues {
	g := graph.Build(doc)
	components := blueprint.ComponentMap(doc.System.Components)

	var issues Issues
	issues = append(issues, v.checkConnectivity(doc, components)...)
	issues = append(issues, v.checkLint(doc, g)...)
	issues = append(issues, v.checkBoundaryTermination(doc, g, components)...)
	issues = append(issues, v.classifyPattern(g)...)
	issues = append(issues, v.checkCompleteness(doc)...)
	issues = append(issues, v.checkAntiPatterns(doc, g, components)...)
	issues = append(issues, v.checkSchemas(doc, components)...)
	return issues
}

// checkConnectivity tests both Allows directions for every binding and every
// fan-out target.
func (v *Validator) checkConnectivity(doc *blueprint.Document, components map[string]*blueprint.Component) Issues {
	var issues Issues

	for _, binding := range doc.System.Bindings {
		from, ok := components[binding.FromComponent]
		if !ok {
			continue
		}

		for _, target := range binding.ToComponents {
			to, ok := components[target]
			if !ok {
				continue
			}

			if v.matrix.Allows(from.Type, to.Type) {
				continue
			}

			issues = append(issues, Issue{
				Kind:     KindConnectivity,
				Severity: SeverityError,
				Message: fmt.Sprintf("invalid_connection: %s (%s) may not feed %s (%s)",
					from.Name, from.Type, to.Name, to.Type),
				Binding:    bindingRef(from.Name, to.Name),
				Suggestion: v.allowedTargetsHint(from.Type),
			})
		}
	}

	return issues
}

func (v *Validator) allowedTargetsHint(kind blueprint.ComponentKind) string {
	targets := v.matrix.AllowedTargets(kind)
	if len(targets) == 0 {
		return fmt.Sprintf("%s may not feed any component", kind)
	}

	names := make([]string, 0, len(targets))
	for _, target := range targets {
		names = append(names, string(target))
	}
	return fmt.Sprintf("%s may feed: %s", kind, strings.Join(names, ", "))
}

// checkLint flags hard self-contradictions. These are unconditional errors
// and are deliberately reported ahead of the forgiving heuristics.
func (v *Validator) checkLint(doc *blueprint.Document, g *graph.Graph) Issues {
	var issues Issues

	for _, comp := range doc.System.Components {
		if !comp.TerminalHint {
			continue
		}

		if len(comp.Outputs) > 0 {
			issues = append(issues, Issue{
				Kind:      KindLint,
				Severity:  SeverityError,
				Message:   fmt.Sprintf("%s declares terminal_hint but has %d output ports", comp.Name, len(comp.Outputs)),
				Component: comp.Name,
			})
		}

		if degree := g.OutDegree(comp.Name); degree > 0 {
			issues = append(issues, Issue{
				Kind:      KindLint,
				Severity:  SeverityError,
				Message:   fmt.Sprintf("%s declares terminal_hint but has %d outgoing bindings", comp.Name, degree),
				Component: comp.Name,
			})
		}
	}

	return issues
}

// checkCompleteness scans free-text descriptions for domain keywords and
// checks the matching component kinds exist.
func (v *Validator) checkCompleteness(doc *blueprint.Document) Issues {
	var issues Issues

	text := strings.ToLower(doc.System.Description)
	for _, comp := range doc.System.Components {
		text += " " + strings.ToLower(comp.Description)
	}

	hasKind := func(kinds ...blueprint.ComponentKind) bool {
		for _, comp := range doc.System.Components {
			for _, kind := range kinds {
				if comp.Type == kind {
					return true
				}
			}
		}
		return false
	}

	if containsWord(text, "api", "rest") && !hasKind(blueprint.KindAPIEndpoint) {
		issues = append(issues, Issue{
			Kind:       KindCompleteness,
			Severity:   SeverityError,
			Message:    "description mentions an API but no APIEndpoint component exists",
			Suggestion: "add an APIEndpoint component or drop the API wording",
		})
	}

	if containsWord(text, "store", "persist", "save") && !hasKind(blueprint.KindStore) {
		issues = append(issues, Issue{
			Kind:       KindCompleteness,
			Severity:   SeverityWarning,
			Message:    "description mentions persistence but no Store component exists",
			Suggestion: "add a Store component or drop the persistence wording",
		})
	}

	return issues
}

func containsWord(text string, words ...string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	for _, field := range fields {
		for _, word := range words {
			if field == word {
				return true
			}
		}
	}
	return false
}

// checkAntiPatterns flags known-bad shapes: storage feeding an origin, and
// wide unrouted fan-out.
func (v *Validator) checkAntiPatterns(doc *blueprint.Document, g *graph.Graph, components map[string]*blueprint.Component) Issues {
	var issues Issues

	for _, binding := range doc.System.Bindings {
		from, ok := components[binding.FromComponent]
		if !ok || from.Type != blueprint.KindStore {
			continue
		}
		for _, target := range binding.ToComponents {
			to, ok := components[target]
			if !ok || !v.matrix.Source(to.Type) {
				continue
			}
			issues = append(issues, Issue{
				Kind:     KindAntiPattern,
				Severity: SeverityError,
				Message: fmt.Sprintf("storage component %s feeds origin component %s; data must not flow back into a source",
					from.Name, to.Name),
				Binding: bindingRef(from.Name, to.Name),
			})
		}
	}

	for _, node := range g.Nodes() {
		if degree := g.OutDegree(node.Name); degree > v.thresholds.RouterSuggestion {
			issues = append(issues, Issue{
				Kind:       KindAntiPattern,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("%s fans out to %d components", node.Name, degree),
				Component:  node.Name,
				Suggestion: "insert a Router component to make the dispatch explicit",
			})
		}
	}

	return issues
}

// checkSchemas verifies the declared schema labels on each binding can be
// reconciled, either directly or through a declared transformation.
func (v *Validator) checkSchemas(doc *blueprint.Document, components map[string]*blueprint.Component) Issues {
	var issues Issues

	for _, binding := range doc.System.Bindings {
		if binding.Transformation != "" {
			continue
		}

		from, ok := components[binding.FromComponent]
		if !ok {
			continue
		}
		fromPort := from.Output(binding.FromPort)
		if fromPort == nil {
			continue
		}

		for i, target := range binding.ToComponents {
			to, ok := components[target]
			if !ok {
				continue
			}
			toPortName := ""
			if i < len(binding.ToPorts) {
				toPortName = binding.ToPorts[i]
			}
			toPort := to.Input(toPortName)
			if toPort == nil {
				continue
			}

			if blueprint.SchemasCompatible(fromPort.SchemaID, toPort.SchemaID) {
				continue
			}

			issues = append(issues, Issue{
				Kind:     KindSchema,
				Severity: SeverityError,
				Message: fmt.Sprintf("schema mismatch: %s.%s emits %q but %s.%s expects %q and no transformation is declared",
					from.Name, fromPort.Name, fromPort.SchemaID, to.Name, toPort.Name, toPort.SchemaID),
				Binding:    bindingRef(from.Name, to.Name),
				Suggestion: "declare a transformation on the binding or align the schema labels",
			})
		}
	}

	return issues
}
