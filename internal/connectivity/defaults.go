package connectivity

import (
	"github.com/armature-dev/armature/internal/blueprint"
)

var (
	originKinds = []blueprint.ComponentKind{
		blueprint.KindSource,
		blueprint.KindEventSource,
	}
	streamKinds = []blueprint.ComponentKind{
		blueprint.KindTransformer,
		blueprint.KindFilter,
		blueprint.KindRouter,
		blueprint.KindAggregator,
		blueprint.KindStreamProcessor,
	}
	terminalKinds = []blueprint.ComponentKind{
		blueprint.KindStore,
		blueprint.KindSink,
	}
)

// DefaultMatrix builds the standard rule table. Edges are declared once as
// (from, to) pairs and expanded into both rule directions, so symmetry holds
// by construction; Matrix.Validate still checks it.
func DefaultMatrix() *Matrix {
	edges := defaultEdges()

	rules := map[blueprint.ComponentKind]Rule{
		blueprint.KindSource:          {ExpectedOutputs: 1, Source: true},
		blueprint.KindEventSource:     {ExpectedOutputs: 1, Source: true},
		blueprint.KindTransformer:     {ExpectedInputs: 1, ExpectedOutputs: 1},
		blueprint.KindFilter:          {ExpectedInputs: 1, ExpectedOutputs: 1},
		blueprint.KindRouter:          {ExpectedInputs: 1, ExpectedOutputs: 1},
		blueprint.KindAggregator:      {ExpectedInputs: 1, ExpectedOutputs: 1},
		blueprint.KindStreamProcessor: {ExpectedInputs: 1, ExpectedOutputs: 1},
		blueprint.KindController:      {ExpectedInputs: 1, ExpectedOutputs: 1},
		blueprint.KindAPIEndpoint:     {ExpectedInputs: 1, ExpectedOutputs: 1},
		blueprint.KindStore:           {ExpectedInputs: 1, Terminal: true},
		blueprint.KindSink:            {ExpectedInputs: 1, Terminal: true},
	}

	for kind, rule := range rules {
		rule.CanConnectTo = map[blueprint.ComponentKind]struct{}{}
		rule.CanReceiveFrom = map[blueprint.ComponentKind]struct{}{}
		rules[kind] = rule
	}

	for _, edge := range edges {
		rules[edge.from].CanConnectTo[edge.to] = struct{}{}
		rules[edge.to].CanReceiveFrom[edge.from] = struct{}{}
	}

	matrix, err := NewMatrix(rules)
	if err != nil {
		// The edge table is wrong, not the caller's input.
		panic(err)
	}
	return matrix
}

type edge struct {
	from, to blueprint.ComponentKind
}

func defaultEdges() []edge {
	var edges []edge

	link := func(from blueprint.ComponentKind, targets ...blueprint.ComponentKind) {
		for _, to := range targets {
			edges = append(edges, edge{from: from, to: to})
		}
	}

	// Origins feed the stream layer, the orchestration layer, and terminals.
	for _, origin := range originKinds {
		link(origin, streamKinds...)
		link(origin, blueprint.KindController)
		link(origin, terminalKinds...)
	}

	// Stream kinds chain among themselves (self-kind included) and drain
	// into orchestration or terminals.
	for _, from := range streamKinds {
		link(from, streamKinds...)
		link(from, blueprint.KindController)
		link(from, terminalKinds...)
	}

	// Controllers orchestrate peers: stream kinds, endpoints, terminals.
	link(blueprint.KindController, streamKinds...)
	link(blueprint.KindController, blueprint.KindAPIEndpoint)
	link(blueprint.KindController, terminalKinds...)

	// Endpoints hand work to orchestration, the stream layer, or storage.
	link(blueprint.KindAPIEndpoint, blueprint.KindController)
	link(blueprint.KindAPIEndpoint, streamKinds...)
	link(blueprint.KindAPIEndpoint, terminalKinds...)

	return edges
}
