package connectivity

import (
	"fmt"
	"sort"

	"github.com/armature-dev/armature/internal/blueprint"
	armerrors "github.com/armature-dev/armature/pkg/errors"
)

// Rule declares, for one component kind, which kinds it may send to and
// receive from, the port cardinality a well-formed instance is expected to
// carry, and whether the kind behaves as an origin or a terminal.
type Rule struct {
	CanConnectTo    map[blueprint.ComponentKind]struct{}
	CanReceiveFrom  map[blueprint.ComponentKind]struct{}
	ExpectedInputs  int
	ExpectedOutputs int
	Terminal        bool
	Source          bool
}

// Matrix is the static per-kind connectivity rule table. It is built once,
// never mutated afterward, and shared read-only across concurrent runs;
// callers hold a reference explicitly rather than reaching for a global.
type Matrix struct {
	rules map[blueprint.ComponentKind]Rule
}

// NewMatrix builds a Matrix from the given rules and verifies its design
// contracts (symmetry, source/terminal shape).
func NewMatrix(rules map[blueprint.ComponentKind]Rule) (*Matrix, error) {
	m := &Matrix{rules: rules}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Rule returns the rule for a kind. The second return reports whether the
// kind is covered by the matrix.
func (m *Matrix) Rule(kind blueprint.ComponentKind) (Rule, bool) {
	rule, ok := m.rules[kind]
	return rule, ok
}

// Allows reports whether a binding from kind `from` to kind `to` is legal.
// Both directions must agree: `to` in from's CanConnectTo and `from` in to's
// CanReceiveFrom. A kind missing from the matrix, or a one-sided rule, is
// disallowed.
func (m *Matrix) Allows(from, to blueprint.ComponentKind) bool {
	fromRule, ok := m.rules[from]
	if !ok {
		return false
	}
	toRule, ok := m.rules[to]
	if !ok {
		return false
	}

	if _, ok := fromRule.CanConnectTo[to]; !ok {
		return false
	}
	_, ok = toRule.CanReceiveFrom[from]
	return ok
}

// AllowedTargets lists, sorted, every kind the given kind may connect to
// (with both directions holding). Used for suggestions in issue messages.
func (m *Matrix) AllowedTargets(from blueprint.ComponentKind) []blueprint.ComponentKind {
	fromRule, ok := m.rules[from]
	if !ok {
		return nil
	}

	out := make([]blueprint.ComponentKind, 0, len(fromRule.CanConnectTo))
	for to := range fromRule.CanConnectTo {
		if m.Allows(from, to) {
			out = append(out, to)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Terminal reports whether the kind is sink-like under the matrix.
func (m *Matrix) Terminal(kind blueprint.ComponentKind) bool {
	rule, ok := m.rules[kind]
	return ok && rule.Terminal
}

// Source reports whether the kind is origin-like under the matrix.
func (m *Matrix) Source(kind blueprint.ComponentKind) bool {
	rule, ok := m.rules[kind]
	return ok && rule.Source
}

// Kinds returns the kinds the matrix covers, sorted for deterministic
// iteration.
func (m *Matrix) Kinds() []blueprint.ComponentKind {
	out := make([]blueprint.ComponentKind, 0, len(m.rules))
	for kind := range m.rules {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks the matrix's own design contracts, independent of any
// document: connect/receive symmetry, sources receive from nothing, and
// terminals connect to nothing.
func (m *Matrix) Validate() error {
	for _, from := range m.Kinds() {
		rule := m.rules[from]

		if rule.Source && len(rule.CanReceiveFrom) > 0 {
			return armerrors.NewMatrixError(string(from), "",
				"source kind must not receive from anything")
		}
		if rule.Terminal && len(rule.CanConnectTo) > 0 {
			return armerrors.NewMatrixError(string(from), "",
				"terminal kind must not connect to anything")
		}

		for to := range rule.CanConnectTo {
			toRule, ok := m.rules[to]
			if !ok {
				return armerrors.NewMatrixError(string(from), string(to),
					"connect target is not covered by the matrix")
			}
			if _, ok := toRule.CanReceiveFrom[from]; !ok {
				return armerrors.NewMatrixError(string(from), string(to),
					fmt.Sprintf("%s allows connecting to %s but %s does not list it in can_receive_from", from, to, to))
			}
		}
		for sender := range rule.CanReceiveFrom {
			senderRule, ok := m.rules[sender]
			if !ok {
				return armerrors.NewMatrixError(string(sender), string(from),
					"receive source is not covered by the matrix")
			}
			if _, ok := senderRule.CanConnectTo[from]; !ok {
				return armerrors.NewMatrixError(string(sender), string(from),
					fmt.Sprintf("%s accepts from %s but %s does not list it in can_connect_to", from, sender, sender))
			}
		}
	}

	return nil
}

func kindSet(kinds ...blueprint.ComponentKind) map[blueprint.ComponentKind]struct{} {
	out := make(map[blueprint.ComponentKind]struct{}, len(kinds))
	for _, kind := range kinds {
		out[kind] = struct{}{}
	}
	return out
}
