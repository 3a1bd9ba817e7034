package blueprint

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/require"

	armerrors "github.com/armature-dev/armature/pkg/errors"
)

const validYAML = `
version: "1.0"
system:
  name: orders
  description: ingest and persist orders
  components:
    - name: ingest
      type: Source
      outputs:
        - name: out
          schema: order
    - name: archive
      type: Store
      inputs:
        - name: in
          schema: order
  bindings:
    - from_component: ingest
      from_port: out
      to_components: [archive]
      to_ports: [in]
`

func mustRaw(t *testing.T, doc string) RawDocument {
	t.Helper()
	raw, err := RawFromYAML([]byte(doc))
	require.NoError(t, err)
	return raw
}

func TestParseValidDocument(t *testing.T) {
	t.Parallel()

	doc, err := Parse(mustRaw(t, validYAML))
	require.NoError(t, err)

	require.Equal(t, "orders", doc.System.Name)
	require.Len(t, doc.System.Components, 2)
	require.Len(t, doc.System.Bindings, 1)
	require.Equal(t, KindSource, doc.System.Components[0].Type)
}

func TestParseAppliesDurableDefault(t *testing.T) {
	t.Parallel()

	doc, err := Parse(mustRaw(t, validYAML))
	require.NoError(t, err)

	byName := ComponentMap(doc.System.Components)
	require.False(t, byName["ingest"].Durable)
	require.True(t, byName["archive"].Durable, "stores default to durable")
}

func TestParseDurableOptOut(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  name: scratch
  components:
    - name: cache
      type: Store
      durable: false
`)

	doc, err := Parse(raw)
	require.NoError(t, err)
	require.False(t, doc.System.Components[0].Durable)
}

func TestParseResolvesKindAliases(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  name: aliased
  components:
    - name: gateway
      type: api_endpoint
    - name: feed
      type: event_source
`)

	doc, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, KindAPIEndpoint, doc.System.Components[0].Type)
	require.Equal(t, KindEventSource, doc.System.Components[1].Type)
}

func TestParseCollectsEveryStructuralError(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  name: broken
  components:
    - name: dup
      type: Source
    - name: dup
      type: Sink
    - name: odd
      type: Contraption
  bindings:
    - from_component: dup
      to_components: [missing, dup]
      to_ports: [in]
`)

	_, err := Parse(raw)
	require.Error(t, err)

	var agg *armerrors.StructuralErrors
	require.True(t, stdErrors.As(err, &agg))

	msg := agg.Error()
	require.Contains(t, msg, "duplicate component name")
	require.Contains(t, msg, "unknown component type")
	require.Contains(t, msg, `unknown component "missing"`)
	require.Contains(t, msg, "to_ports has 1")
}

func TestParseRejectsMissingSystemName(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  components:
    - name: a
      type: Source
`)

	_, err := Parse(raw)
	require.Error(t, err)
	require.Contains(t, err.Error(), "system.name")
}

func TestParseRejectsDuplicatePortNames(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  name: dupports
  components:
    - name: worker
      type: Transformer
      inputs:
        - name: in
        - name: in
`)

	_, err := Parse(raw)
	require.Error(t, err)
	require.Contains(t, err.Error(), `duplicate port name "in"`)
}

func TestComponentPortLookup(t *testing.T) {
	t.Parallel()

	comp := Component{
		Name: "router",
		Type: KindRouter,
		Outputs: []Port{
			{Name: "matched", SchemaID: "order"},
			{Name: "rest", SchemaID: "order"},
		},
	}

	require.Equal(t, "matched", comp.Output("").Name, "empty name falls back to first port")
	require.Equal(t, "rest", comp.Output("rest").Name)
	require.Nil(t, comp.Output("absent"))
	require.Nil(t, comp.Input("in"))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want ComponentKind
		ok   bool
	}{
		{in: "store", want: KindStore, ok: true},
		{in: "STORE", want: KindStore, ok: true},
		{in: " StreamProcessor ", want: KindStreamProcessor, ok: true},
		{in: "stream_processor", want: KindStreamProcessor, ok: true},
		{in: "mainframe", ok: false},
	}

	for _, tc := range cases {
		got, ok := KindOf(tc.in)
		require.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			require.Equal(t, tc.want, got, tc.in)
		}
	}
}
