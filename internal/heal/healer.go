package heal

import (
	"fmt"

	"github.com/armature-dev/armature/internal/blueprint"
	"github.com/armature-dev/armature/internal/connectivity"
	"github.com/armature-dev/armature/internal/logger"
)

// Phase selects which repair family a healing pass applies.
type Phase string

const (
	// PhaseStructural repairs the document's shape: binding normalization,
	// missing bindings, missing terminals, format markers.
	PhaseStructural Phase = "structural"
	// PhaseSchema reconciles port schema labels once ports exist.
	PhaseSchema Phase = "schema"
)

// Healer applies matrix-constrained repairs to a raw working document. The
// Healer itself is stateless; everything mutable during a run lives in the
// Session threaded through Heal.
type Healer struct {
	matrix *connectivity.Matrix
	log    *logger.Logger
}

// NewHealer constructs a Healer around an explicit matrix reference.
func NewHealer(matrix *connectivity.Matrix, log *logger.Logger) *Healer {
	if log == nil {
		log = logger.Discard()
	}
	return &Healer{matrix: matrix, log: log}
}

// Heal runs one pass of the given phase over the raw document, mutating it
// in place, and returns it with the record of applied operations. The record
// is also appended to the session for stagnation tracking.
func (h *Healer) Heal(raw blueprint.RawDocument, phase Phase, session *Session) (blueprint.RawDocument, Record) {
	var record Record

	switch phase {
	case PhaseStructural:
		record = h.healStructural(raw, session)
	case PhaseSchema:
		record = h.healSchema(raw)
	default:
		h.log.Warn(fmt.Sprintf("unknown healing phase %q, nothing applied", phase))
	}

	session.record(record)

	for _, op := range record {
		h.log.WithFields(map[string]any{"phase": string(phase)}).Debug(op)
	}

	return raw, record
}
