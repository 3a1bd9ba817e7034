package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armature-dev/armature/internal/blueprint"
)

func pipelineDoc() *blueprint.Document {
	return &blueprint.Document{
		Version: "1.0",
		System: blueprint.System{
			Name: "pipeline",
			Components: []blueprint.Component{
				{Name: "feed", Type: blueprint.KindSource, Outputs: []blueprint.Port{{Name: "out"}}},
				{Name: "clean", Type: blueprint.KindTransformer, Inputs: []blueprint.Port{{Name: "in"}}, Outputs: []blueprint.Port{{Name: "out"}}},
				{Name: "archive", Type: blueprint.KindStore, Inputs: []blueprint.Port{{Name: "in"}}},
				{Name: "island", Type: blueprint.KindSink, Inputs: []blueprint.Port{{Name: "in"}}},
			},
			Bindings: []blueprint.Binding{
				{FromComponent: "feed", FromPort: "out", ToComponents: []string{"clean"}, ToPorts: []string{"in"}},
				{FromComponent: "clean", FromPort: "out", ToComponents: []string{"archive"}, ToPorts: []string{"in"}},
			},
		},
	}
}

func TestBuildCountsNodesAndEdges(t *testing.T) {
	t.Parallel()

	g := Build(pipelineDoc())

	require.Equal(t, 4, g.NodeCount())
	require.Equal(t, 2, g.EdgeCount())
	require.Equal(t, blueprint.KindTransformer, g.Node("clean").Kind)
	require.Nil(t, g.Node("ghost"))
}

func TestBuildCollapsesDuplicatePairs(t *testing.T) {
	t.Parallel()

	doc := pipelineDoc()
	doc.System.Bindings = append(doc.System.Bindings, blueprint.Binding{
		FromComponent: "feed", FromPort: "out",
		ToComponents: []string{"clean"}, ToPorts: []string{"audit"},
	})

	g := Build(doc)

	require.Equal(t, 2, g.EdgeCount(), "repeat pair must not add an edge")
	require.Equal(t, 1, g.OutDegree("feed"))
	require.Len(t, g.EdgesBetween("feed", "clean"), 2, "port annotations accumulate")
}

func TestBuildFanOut(t *testing.T) {
	t.Parallel()

	doc := pipelineDoc()
	doc.System.Bindings = []blueprint.Binding{{
		FromComponent: "feed",
		FromPort:      "out",
		ToComponents:  []string{"clean", "archive", "island"},
		ToPorts:       []string{"in", "in", "in"},
	}}

	g := Build(doc)

	require.Equal(t, 3, g.OutDegree("feed"))
	require.Equal(t, []string{"archive", "clean", "island"}, g.Successors("feed"))
	require.Equal(t, 1, g.InDegree("archive"))
}

func TestBuildSkipsUnknownEndpoints(t *testing.T) {
	t.Parallel()

	doc := pipelineDoc()
	doc.System.Bindings = append(doc.System.Bindings, blueprint.Binding{
		FromComponent: "ghost", ToComponents: []string{"archive"}, ToPorts: []string{"in"},
	})

	g := Build(doc)
	require.Equal(t, 2, g.EdgeCount())
}

func TestReachable(t *testing.T) {
	t.Parallel()

	g := Build(pipelineDoc())

	isStore := func(n *Node) bool { return n.Kind == blueprint.KindStore }

	require.True(t, g.Reachable("feed", isStore), "feed -> clean -> archive")
	require.True(t, g.Reachable("archive", isStore), "self short-circuit")
	require.False(t, g.Reachable("island", isStore), "disconnected sink")
	require.False(t, g.Reachable("ghost", isStore), "unknown start")
}

func TestReachableSurvivesCycles(t *testing.T) {
	t.Parallel()

	doc := pipelineDoc()
	doc.System.Bindings = []blueprint.Binding{
		{FromComponent: "feed", ToComponents: []string{"clean"}, ToPorts: []string{"in"}},
		{FromComponent: "clean", ToComponents: []string{"feed"}, ToPorts: []string{"in"}},
	}

	g := Build(doc)

	require.False(t, g.Reachable("feed", func(n *Node) bool {
		return n.Kind == blueprint.KindStore
	}), "cycle must terminate, not loop")
}
