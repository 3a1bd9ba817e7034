package engine

import (
	"fmt"

	"github.com/armature-dev/armature/internal/blueprint"
	"github.com/armature-dev/armature/internal/connectivity"
	"github.com/armature-dev/armature/internal/heal"
	"github.com/armature-dev/armature/internal/logger"
	"github.com/armature-dev/armature/internal/validate"
	armerrors "github.com/armature-dev/armature/pkg/errors"
)

// DefaultMaxAttempts bounds the heal-validate loop, counting the first try.
const DefaultMaxAttempts = 4

// Options tunes one orchestrator instance.
type Options struct {
	MaxAttempts int
	Thresholds  validate.Thresholds
}

// Orchestrator drives the fixed-point loop: structural heal, port
// inference, schema heal, parse, validate, repeat until clean or out of
// budget. It owns only sequencing, working-document bookkeeping, and
// termination; the passes themselves live in their own packages.
type Orchestrator struct {
	matrix    *connectivity.Matrix
	healer    *heal.Healer
	validator *validate.Validator
	log       *logger.Logger
	opts      Options
}

// New constructs an Orchestrator. A zero MaxAttempts falls back to the
// default; zero thresholds fall back to the standard heuristics.
func New(matrix *connectivity.Matrix, log *logger.Logger, opts Options) *Orchestrator {
	if log == nil {
		log = logger.Discard()
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Thresholds == (validate.Thresholds{}) {
		opts.Thresholds = validate.DefaultThresholds()
	}

	return &Orchestrator{
		matrix:    matrix,
		healer:    heal.NewHealer(matrix, log),
		validator: validate.NewValidator(matrix, opts.Thresholds),
		log:       log,
		opts:      opts,
	}
}

// Validate exposes the architectural validator to downstream consumers.
func (o *Orchestrator) Validate(doc *blueprint.Document) validate.Issues {
	return o.validator.Validate(doc)
}

// Result carries the outcome of a heal-and-validate run: the typed document
// when validation came back clean, the issues of the final attempt, and the
// healing records of every attempt.
type Result struct {
	Document *blueprint.Document
	Issues   validate.Issues
	Records  []heal.Record
	Attempts int
}

// HealAndValidate runs the loop over one working document. The supplied raw
// document is mutated across attempts: repairs from earlier attempts are
// never discarded. All per-run state (the healing session, stagnation
// history) is local to this call, so concurrent runs over distinct
// documents may share the Orchestrator.
func (o *Orchestrator) HealAndValidate(raw blueprint.RawDocument) (*Result, error) {
	session := heal.NewSession()
	log := o.log.WithDocument(raw.Name())

	var (
		lastRecord  heal.Record
		stagnant    int
		finalIssues validate.Issues
		result      = &Result{}
	)

	for attempt := 1; attempt <= o.opts.MaxAttempts; attempt++ {
		result.Attempts = attempt
		attemptLog := log.WithFields(map[string]any{"attempt": attempt})

		_, structuralOps := o.healer.Heal(raw, heal.PhaseStructural, session)
		blueprint.InferPorts(raw)
		_, schemaOps := o.healer.Heal(raw, heal.PhaseSchema, session)

		record := append(append(heal.Record{}, structuralOps...), schemaOps...)
		result.Records = append(result.Records, record)

		doc, err := blueprint.Parse(raw)
		if err != nil {
			finalIssues = structuralIssues(err)
			attemptLog.Warn(fmt.Sprintf("parse failed with %d structural issues", len(finalIssues)))
		} else {
			finalIssues = o.validator.Validate(doc)
			if !finalIssues.HasErrors() {
				attemptLog.Info("validation clean")
				result.Document = doc
				result.Issues = finalIssues
				return result, nil
			}
			attemptLog.Info(fmt.Sprintf("validation found %d blocking issues", len(finalIssues.Errors())))
		}

		if record.Empty() || (attempt > 1 && record.Equal(lastRecord)) {
			stagnant++
		} else {
			stagnant = 0
		}
		lastRecord = record

		if stagnant >= 3 {
			result.Issues = finalIssues
			return result, armerrors.NewHealingError(attempt, true, finalIssues.Lines())
		}
		if stagnant == 2 {
			attemptLog.Warn("healing is stagnating: repeated or empty repair list")
		}
	}

	result.Issues = finalIssues
	return result, armerrors.NewHealingError(o.opts.MaxAttempts, false, finalIssues.Lines())
}

// structuralIssues renders parse failures as error-severity issues so the
// final report always carries full detail.
func structuralIssues(err error) validate.Issues {
	var issues validate.Issues

	if agg, ok := err.(*armerrors.StructuralErrors); ok {
		for _, inner := range agg.Errors {
			issues = append(issues, validate.Issue{
				Kind:     validate.KindLint,
				Severity: validate.SeverityError,
				Message:  inner.Error(),
			})
		}
		return issues
	}

	return validate.Issues{{
		Kind:     validate.KindLint,
		Severity: validate.SeverityError,
		Message:  err.Error(),
	}}
}
