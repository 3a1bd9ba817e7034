package validate

import (
	"fmt"

	"github.com/armature-dev/armature/internal/blueprint"
	"github.com/armature-dev/armature/internal/graph"
)

// Boundary-termination reachability: every externally-triggered entry point
// must reach a commitment point, where a commitment point is a durable
// component or one with an externally-visible egress port.

func (v *Validator) checkBoundaryTermination(doc *blueprint.Document, g *graph.Graph, components map[string]*blueprint.Component) Issues {
	var issues Issues

	type ingress struct {
		component string
		port      string
		reply     bool
	}

	var ingresses []ingress
	flagged := false
	commitment := make(map[string]bool, len(doc.System.Components))

	for _, comp := range doc.System.Components {
		if comp.Durable {
			commitment[comp.Name] = true
		}
		for _, port := range comp.Outputs {
			if port.BoundaryEgress {
				flagged = true
				commitment[comp.Name] = true
			}
		}
		for _, port := range comp.Inputs {
			if port.BoundaryIngress {
				flagged = true
				ingresses = append(ingresses, ingress{
					component: comp.Name,
					port:      port.Name,
					reply:     port.ReplyRequired,
				})
			}
		}
	}

	if !flagged {
		return append(issues, v.coarseBoundaryCheck(doc))
	}

	isCommitment := func(n *graph.Node) bool { return commitment[n.Name] }

	for _, in := range ingresses {
		if !g.Reachable(in.component, isCommitment) {
			issues = append(issues, Issue{
				Kind:     KindBoundary,
				Severity: SeverityError,
				Message: fmt.Sprintf("ingress port %s.%s cannot reach a durable or boundary-egress component",
					in.component, in.port),
				Component:  in.component,
				Suggestion: "bind the component, directly or transitively, to a Store or a boundary-egress output",
			})
		}

		if in.reply && !hasEgressOutput(components[in.component]) {
			issues = append(issues, Issue{
				Kind:     KindBoundary,
				Severity: SeverityError,
				Message: fmt.Sprintf("ingress port %s.%s requires a reply but %s has no boundary_egress output",
					in.component, in.port, in.component),
				Component:  in.component,
				Suggestion: "add a boundary_egress output port to carry the reply",
			})
		}
	}

	return issues
}

func hasEgressOutput(comp *blueprint.Component) bool {
	if comp == nil {
		return false
	}
	for _, port := range comp.Outputs {
		if port.BoundaryEgress {
			return true
		}
	}
	return false
}

// coarseBoundaryCheck is the fallback when no port carries boundary flags:
// accept, informationally, a document that pairs an externally-facing
// endpoint with a persistence or orchestration component.
func (v *Validator) coarseBoundaryCheck(doc *blueprint.Document) Issue {
	hasEndpoint := false
	hasCommitmentKind := false

	for _, comp := range doc.System.Components {
		switch comp.Type {
		case blueprint.KindAPIEndpoint:
			hasEndpoint = true
		case blueprint.KindStore, blueprint.KindController:
			hasCommitmentKind = true
		}
	}

	if hasEndpoint && hasCommitmentKind {
		return Issue{
			Kind:     KindBoundary,
			Severity: SeverityInfo,
			Message:  "no boundary flags declared; endpoint and persistence components present, assuming sound boundaries",
		}
	}

	return Issue{
		Kind:       KindBoundary,
		Severity:   SeverityWarning,
		Message:    "no boundary semantics found: no port is flagged boundary_ingress or boundary_egress",
		Suggestion: "flag entry ports with boundary_ingress and reply/emission ports with boundary_egress",
	}
}
