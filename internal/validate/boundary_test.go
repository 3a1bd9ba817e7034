package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundaryIngressReachesDurableStore(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: reachable
  components:
    - name: gateway
      type: APIEndpoint
      inputs: [{name: request, boundary_ingress: true}]
      outputs: [{name: response, boundary_egress: true}]
    - name: worker
      type: Transformer
      inputs: [{name: in}]
      outputs: [{name: out}]
    - name: archive
      type: Store
      inputs: [{name: in}]
  bindings:
    - {from_component: gateway, from_port: response, to_components: [worker], to_ports: [in]}
    - {from_component: worker, from_port: out, to_components: [archive], to_ports: [in]}
`)

	require.Empty(t, newTestValidator().Validate(doc).OfKind(KindBoundary))
}

func TestBoundaryIngressOnCommitmentComponentShortCircuits(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: selfcommit
  components:
    - name: intake
      type: Store
      inputs: [{name: in, boundary_ingress: true}]
`)

	require.Empty(t, newTestValidator().Validate(doc).OfKind(KindBoundary))
}

func TestBoundaryUnreachableIngress(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: stranded
  components:
    - name: listener
      type: EventSource
      outputs: [{name: out}]
      inputs: [{name: trigger, boundary_ingress: true}]
    - name: archive
      type: Store
      inputs: [{name: in}]
`)

	boundary := newTestValidator().Validate(doc).OfKind(KindBoundary)

	require.Len(t, boundary, 1)
	require.Equal(t, SeverityError, boundary[0].Severity)
	require.Equal(t, "listener", boundary[0].Component)
	require.Contains(t, boundary[0].Message, "listener.trigger")
}

func TestBoundaryReplyRequiredWithoutEgress(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: noreply
  components:
    - name: gateway
      type: APIEndpoint
      inputs: [{name: request, boundary_ingress: true, reply_required: true}]
      outputs: [{name: forward}]
    - name: archive
      type: Store
      inputs: [{name: in}]
  bindings:
    - {from_component: gateway, from_port: forward, to_components: [archive], to_ports: [in]}
`)

	boundary := newTestValidator().Validate(doc).OfKind(KindBoundary)

	require.Len(t, boundary, 1)
	require.Equal(t, SeverityError, boundary[0].Severity)
	require.Contains(t, boundary[0].Message, "requires a reply")
	require.Contains(t, boundary[0].Message, "boundary_egress")
}

func TestBoundaryFallbackInfoWhenEndpointAndStoreExist(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: unflagged
  components:
    - name: gateway
      type: APIEndpoint
      inputs: [{name: request}]
      outputs: [{name: response}]
    - name: archive
      type: Store
      inputs: [{name: in}]
  bindings:
    - {from_component: gateway, from_port: response, to_components: [archive], to_ports: [in]}
`)

	boundary := newTestValidator().Validate(doc).OfKind(KindBoundary)

	require.Len(t, boundary, 1)
	require.Equal(t, SeverityInfo, boundary[0].Severity)
}

func TestBoundaryFallbackWarnsWhenNoBoundarySemantics(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: opaque
  components:
    - name: feed
      type: Source
      outputs: [{name: out}]
    - name: drain
      type: Sink
      inputs: [{name: in}]
  bindings:
    - {from_component: feed, from_port: out, to_components: [drain], to_ports: [in]}
`)

	boundary := newTestValidator().Validate(doc).OfKind(KindBoundary)

	require.Len(t, boundary, 1)
	require.Equal(t, SeverityWarning, boundary[0].Severity)
	require.Contains(t, boundary[0].Message, "no boundary semantics")
}
