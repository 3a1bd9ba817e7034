package blueprint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInferPortsAppliesKindTemplates(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  name: inferred
  components:
    - name: feed
      type: Source
    - name: gateway
      type: APIEndpoint
    - name: archive
      type: Store
`)

	doc, err := Parse(InferPorts(raw))
	require.NoError(t, err)

	byName := ComponentMap(doc.System.Components)

	require.Len(t, byName["feed"].Outputs, 1)
	require.Equal(t, "out", byName["feed"].Outputs[0].Name)
	require.Empty(t, byName["feed"].Inputs)

	gateway := byName["gateway"]
	require.Len(t, gateway.Inputs, 1)
	require.True(t, gateway.Inputs[0].BoundaryIngress)
	require.True(t, gateway.Inputs[0].ReplyRequired)
	require.Len(t, gateway.Outputs, 1)
	require.True(t, gateway.Outputs[0].BoundaryEgress)
	require.True(t, gateway.Outputs[0].SatisfiesReply)

	require.Len(t, byName["archive"].Inputs, 1)
	require.Empty(t, byName["archive"].Outputs)
}

func TestInferPortsKeepsExistingPorts(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  name: explicit
  components:
    - name: feed
      type: Source
      outputs:
        - name: telemetry
          schema: metric
`)

	doc, err := Parse(InferPorts(raw))
	require.NoError(t, err)

	outputs := doc.System.Components[0].Outputs
	require.Len(t, outputs, 1, "template must not stack onto declared ports")
	require.Equal(t, "telemetry", outputs[0].Name)
	require.Equal(t, "metric", outputs[0].SchemaID)
}

func TestInferPortsAddsBindingImpliedPorts(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  name: implied
  components:
    - name: feed
      type: Source
      outputs:
        - name: out
    - name: archive
      type: Store
      inputs:
        - name: in
  bindings:
    - from_component: feed
      from_port: side_channel
      to_components: [archive]
      to_ports: [audit_in]
`)

	doc, err := Parse(InferPorts(raw))
	require.NoError(t, err)

	byName := ComponentMap(doc.System.Components)

	require.NotNil(t, byName["feed"].Output("side_channel"))
	require.Equal(t, "any", byName["feed"].Output("side_channel").SchemaID)
	require.NotNil(t, byName["archive"].Input("audit_in"))
}

func TestInferPortsSkipsOutputsForTerminalHint(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  name: hinted
  components:
    - name: feed
      type: Source
    - name: tail
      type: Transformer
      terminal_hint: true
  bindings:
    - from_component: feed
      from_port: out
      to_components: [tail]
      to_ports: [in]
`)

	doc, err := Parse(InferPorts(raw))
	require.NoError(t, err)

	tail := ComponentMap(doc.System.Components)["tail"]
	require.Empty(t, tail.Outputs, "a terminal-hinted component must not gain outputs")
	require.Len(t, tail.Inputs, 1)
}

func TestInferPortsIsIdempotent(t *testing.T) {
	t.Parallel()

	raw := mustRaw(t, `
version: "1.0"
system:
  name: stable
  components:
    - name: worker
      type: Transformer
`)

	once := InferPorts(raw)
	first, err := once.ToYAML()
	require.NoError(t, err)

	twice := InferPorts(once)
	second, err := twice.ToYAML()
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
}
