package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armature-dev/armature/internal/blueprint"
	"github.com/armature-dev/armature/internal/connectivity"
)

func parseDoc(t *testing.T, doc string) *blueprint.Document {
	t.Helper()

	raw, err := blueprint.RawFromYAML([]byte(doc))
	require.NoError(t, err)

	typed, err := blueprint.Parse(raw)
	require.NoError(t, err)
	return typed
}

func newTestValidator() *Validator {
	return NewValidator(connectivity.DefaultMatrix(), DefaultThresholds())
}

const cleanPipeline = `
version: "1.0"
system:
  name: orders
  components:
    - name: feed
      type: Source
      outputs: [{name: out, schema: order}]
    - name: clean
      type: Transformer
      inputs: [{name: in, schema: order}]
      outputs: [{name: out, schema: order}]
    - name: archive
      type: Store
      inputs: [{name: in, schema: order}]
  bindings:
    - {from_component: feed, from_port: out, to_components: [clean], to_ports: [in]}
    - {from_component: clean, from_port: out, to_components: [archive], to_ports: [in]}
`

func TestValidateCleanPipeline(t *testing.T) {
	t.Parallel()

	issues := newTestValidator().Validate(parseDoc(t, cleanPipeline))

	require.False(t, issues.HasErrors(), "unexpected errors: %v", issues.Errors())
	require.Len(t, issues.OfKind(KindPattern), 1)
	require.Equal(t, SeverityInfo, issues.OfKind(KindPattern)[0].Severity)
}

func TestValidateFlagsIllegalConnection(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: backwards
  components:
    - name: drain
      type: Sink
      inputs: [{name: in}]
    - name: archive
      type: Store
      inputs: [{name: in}]
  bindings:
    - {from_component: drain, to_components: [archive], to_ports: [in]}
`)

	issues := newTestValidator().Validate(doc)
	connectivityIssues := issues.OfKind(KindConnectivity)

	require.Len(t, connectivityIssues, 1)
	require.Equal(t, SeverityError, connectivityIssues[0].Severity)
	require.Contains(t, connectivityIssues[0].Message, "invalid_connection")
	require.Contains(t, connectivityIssues[0].Suggestion, "may not feed any component")
	require.Equal(t, "drain -> archive", connectivityIssues[0].Binding)
}

func TestValidateFanOutConnectivityCheckedPerTarget(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: fanout
  components:
    - name: feed
      type: Source
      outputs: [{name: out}]
    - name: archive
      type: Store
      inputs: [{name: in}]
    - name: origin2
      type: Source
      outputs: [{name: out}]
  bindings:
    - {from_component: feed, from_port: out, to_components: [archive, origin2], to_ports: [in, out]}
`)

	issues := newTestValidator().Validate(doc).OfKind(KindConnectivity)

	require.Len(t, issues, 1, "only the source target is illegal")
	require.Equal(t, "feed -> origin2", issues[0].Binding)
}

func TestValidateLintTerminalHintContradiction(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: contradiction
  components:
    - name: archive
      type: Store
      terminal_hint: true
      inputs: [{name: in}]
      outputs: [{name: leak}]
    - name: drain
      type: Sink
      inputs: [{name: in}]
  bindings:
    - {from_component: archive, from_port: leak, to_components: [drain], to_ports: [in]}
`)

	lint := newTestValidator().Validate(doc).OfKind(KindLint)

	require.Len(t, lint, 2, "both the output ports and the out-degree violate the hint")
	for _, issue := range lint {
		require.Equal(t, SeverityError, issue.Severity)
		require.Equal(t, "archive", issue.Component)
	}
}

func TestValidateStoreFeedingSourceAntiPattern(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: loopback
  components:
    - name: archive
      type: Store
      inputs: [{name: in}]
      outputs: [{name: out}]
    - name: feed
      type: Source
      outputs: [{name: out}]
  bindings:
    - {from_component: archive, from_port: out, to_components: [feed], to_ports: [out]}
`)

	anti := newTestValidator().Validate(doc).OfKind(KindAntiPattern)

	require.Len(t, anti, 1)
	require.Equal(t, SeverityError, anti[0].Severity)
	require.Contains(t, anti[0].Message, "archive")
	require.Contains(t, anti[0].Message, "feed")
}

func TestValidateWideFanOutWarnsForRouter(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: sprawl
  components:
    - name: feed
      type: Source
      outputs: [{name: out}]
    - name: a
      type: Sink
      inputs: [{name: in}]
    - name: b
      type: Sink
      inputs: [{name: in}]
    - name: c
      type: Sink
      inputs: [{name: in}]
    - name: d
      type: Sink
      inputs: [{name: in}]
  bindings:
    - {from_component: feed, from_port: out, to_components: [a, b, c, d], to_ports: [in, in, in, in]}
`)

	anti := newTestValidator().Validate(doc).OfKind(KindAntiPattern)

	require.Len(t, anti, 1)
	require.Equal(t, SeverityWarning, anti[0].Severity)
	require.Contains(t, anti[0].Suggestion, "Router")
}

func TestValidateCompletenessKeywords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		description  string
		wantSeverity Severity
		wantCount    int
	}{
		{name: "api without endpoint", description: "exposes a REST api", wantSeverity: SeverityError, wantCount: 1},
		{name: "persistence without store", description: "must persist results", wantSeverity: SeverityWarning, wantCount: 1},
		{name: "keyword inside a word does not count", description: "rapid therapist", wantCount: 0},
		{name: "no keywords", description: "plain data mover", wantCount: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := parseDoc(t, `
version: "1.0"
system:
  name: keywords
  description: `+tc.description+`
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

			completeness := newTestValidator().Validate(doc).OfKind(KindCompleteness)
			require.Len(t, completeness, tc.wantCount)
			if tc.wantCount > 0 {
				require.Equal(t, tc.wantSeverity, completeness[0].Severity)
			}
		})
	}
}

func TestValidateSchemaMismatchWithoutTransformation(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: mismatch
  components:
    - name: feed
      type: Source
      outputs: [{name: out, schema: csv_row}]
    - name: archive
      type: Store
      inputs: [{name: in, schema: order}]
  bindings:
    - {from_component: feed, from_port: out, to_components: [archive], to_ports: [in]}
`)

	schema := newTestValidator().Validate(doc).OfKind(KindSchema)

	require.Len(t, schema, 1)
	require.Equal(t, SeverityError, schema[0].Severity)
	require.Contains(t, schema[0].Message, "csv_row")
	require.Contains(t, schema[0].Message, "order")
}

func TestValidateSchemaMismatchWithTransformationPasses(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: transformed
  components:
    - name: feed
      type: Source
      outputs: [{name: out, schema: csv_row}]
    - name: archive
      type: Store
      inputs: [{name: in, schema: order}]
  bindings:
    - from_component: feed
      from_port: out
      to_components: [archive]
      to_ports: [in]
      transformation: convert_csv_row_to_order
`)

	require.Empty(t, newTestValidator().Validate(doc).OfKind(KindSchema))
}

func TestValidateFreelyCompatibleSchemas(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
version: "1.0"
system:
  name: compatible
  components:
    - name: feed
      type: Source
      outputs: [{name: out, schema: json}]
    - name: archive
      type: Store
      inputs: [{name: in, schema: object}]
  bindings:
    - {from_component: feed, from_port: out, to_components: [archive], to_ports: [in]}
`)

	require.Empty(t, newTestValidator().Validate(doc).OfKind(KindSchema))
}

func TestValidatorIsReusableAcrossDocuments(t *testing.T) {
	t.Parallel()

	v := newTestValidator()
	doc := parseDoc(t, cleanPipeline)

	first := v.Validate(doc)
	second := v.Validate(doc)

	require.Equal(t, first, second, "validator must hold no per-run state")
}
