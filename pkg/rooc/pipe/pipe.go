// Package pipe assembles the rooc package's stages into a configurable
// chain, grounded on original_source/src/pipe/pipe_runner.rs's PipeRunner:
// a PipeRunner holds an ordered list of Pipeable stages and threads a
// PipeableData value through each in turn, stopping at the first stage
// that returns an error.
package pipe

import (
	"fmt"

	"github.com/rooc-lang/rooc/internal/errs"
	"github.com/rooc-lang/rooc/internal/functions"
	"github.com/rooc-lang/rooc/pkg/rooc"
)

// DataKind tags which variant of the pipeline's data a PipeableData holds.
type DataKind int

const (
	KindString DataKind = iota
	KindPreProblem
	KindModel
	KindLinearModel
	KindSolution
)

func (k DataKind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindPreProblem:
		return "PreProblem"
	case KindModel:
		return "Model"
	case KindLinearModel:
		return "LinearModel"
	case KindSolution:
		return "Solution"
	default:
		return "Unknown"
	}
}

// PipeableData is the closed set of values that can flow between pipeline
// stages, mirroring the original's PipeableData enum. Exactly the field
// matching Kind is populated.
type PipeableData struct {
	Kind        DataKind
	String      string
	PreProblem  *rooc.PreProblem
	Model       *rooc.Model
	LinearModel *rooc.LinearModel
	Solution    rooc.LpSolution
}

func StringData(s string) PipeableData { return PipeableData{Kind: KindString, String: s} }
func PreProblemData(p *rooc.PreProblem) PipeableData {
	return PipeableData{Kind: KindPreProblem, PreProblem: p}
}
func ModelData(m *rooc.Model) PipeableData { return PipeableData{Kind: KindModel, Model: m} }
func LinearModelData(lm *rooc.LinearModel) PipeableData {
	return PipeableData{Kind: KindLinearModel, LinearModel: lm}
}
func SolutionData(s rooc.LpSolution) PipeableData {
	return PipeableData{Kind: KindSolution, Solution: s}
}

// PipeErrorKind enumerates why a stage could not run.
type PipeErrorKind int

const (
	InvalidData PipeErrorKind = iota
	StageFailed
)

// PipeError is returned by a Pipeable when its input is the wrong
// PipeableData variant (InvalidData) or when the wrapped compilation stage
// itself failed (StageFailed, wrapping that stage's own error).
type PipeError struct {
	Kind     PipeErrorKind
	Expected DataKind
	Got      DataKind
	Err      error
}

func (e PipeError) Error() string {
	if e.Kind == InvalidData {
		return fmt.Sprintf("pipe expected %s data, got %s", e.Expected, e.Got)
	}
	return e.Err.Error()
}

func (e PipeError) Unwrap() error { return e.Err }

func newInvalidData(expected, got DataKind) PipeError {
	return PipeError{Kind: InvalidData, Expected: expected, Got: got}
}

func newStageFailed(err error) PipeError {
	return PipeError{Kind: StageFailed, Err: err}
}

// Pipeable is one stage of the pipeline.
type Pipeable interface {
	Pipe(data PipeableData) (PipeableData, error)
}

// CompilerPipe parses source text into a PreProblem.
type CompilerPipe struct{}

func (CompilerPipe) Pipe(data PipeableData) (PipeableData, error) {
	if data.Kind != KindString {
		return PipeableData{}, newInvalidData(KindString, data.Kind)
	}
	prob, cerrs := rooc.Parse(data.String)
	if len(cerrs) > 0 {
		return PipeableData{}, newStageFailed(firstCompilationError(cerrs))
	}
	return PreProblemData(prob), nil
}

// TypeCheckPipe validates a PreProblem in place, passing it through
// unchanged on success.
type TypeCheckPipe struct{ Functions *functions.Map }

func (p TypeCheckPipe) Pipe(data PipeableData) (PipeableData, error) {
	if data.Kind != KindPreProblem {
		return PipeableData{}, newInvalidData(KindPreProblem, data.Kind)
	}
	fns := p.Functions
	if fns == nil {
		fns = functions.NewMap()
	}
	if cerrs := rooc.TypeCheck(data.PreProblem, fns); len(cerrs) > 0 {
		return PipeableData{}, newStageFailed(firstCompilationError(cerrs))
	}
	return data, nil
}

// ModelPipe transforms a PreProblem into a Model.
type ModelPipe struct{ Functions *functions.Map }

func (p ModelPipe) Pipe(data PipeableData) (PipeableData, error) {
	if data.Kind != KindPreProblem {
		return PipeableData{}, newInvalidData(KindPreProblem, data.Kind)
	}
	fns := p.Functions
	if fns == nil {
		fns = functions.NewMap()
	}
	model, err := rooc.Transform(data.PreProblem, fns)
	if err != nil {
		return PipeableData{}, newStageFailed(err)
	}
	return ModelData(model), nil
}

// LinearModelPipe linearizes a Model into a LinearModel.
type LinearModelPipe struct{}

func (LinearModelPipe) Pipe(data PipeableData) (PipeableData, error) {
	if data.Kind != KindModel {
		return PipeableData{}, newInvalidData(KindModel, data.Kind)
	}
	lm, err := rooc.Linearize(data.Model)
	if err != nil {
		return PipeableData{}, newStageFailed(err)
	}
	return LinearModelData(lm), nil
}

// SolverPipe solves a LinearModel via AutoSolve's domain-driven dispatch.
type SolverPipe struct{}

func (SolverPipe) Pipe(data PipeableData) (PipeableData, error) {
	if data.Kind != KindLinearModel {
		return PipeableData{}, newInvalidData(KindLinearModel, data.Kind)
	}
	sol, err := rooc.Solve(data.LinearModel)
	if err != nil {
		return PipeableData{}, newStageFailed(err)
	}
	return SolutionData(sol), nil
}

func firstCompilationError(cerrs []errs.CompilationError) error {
	if len(cerrs) == 0 {
		return nil
	}
	return cerrs[0]
}

// DefaultPipeline is the standard source-to-solution chain: parse,
// type-check, transform, linearize, solve.
func DefaultPipeline(fns *functions.Map) []Pipeable {
	return []Pipeable{
		CompilerPipe{},
		TypeCheckPipe{Functions: fns},
		ModelPipe{Functions: fns},
		LinearModelPipe{},
		SolverPipe{},
	}
}

// PipeRunner threads a PipeableData value through an ordered list of
// Pipeable stages, stopping at the first one that errors.
type PipeRunner struct {
	Pipes []Pipeable
}

func NewPipeRunner(pipes []Pipeable) *PipeRunner {
	return &PipeRunner{Pipes: pipes}
}

// Run executes every stage in order, returning every intermediate
// PipeableData produced (including the initial input as element 0). On a
// stage failure, the returned slice holds every result computed before the
// failure and the error identifies which stage failed and why — mirroring
// the original's Result<Vec<_>, (PipeError, Vec<_>)> shape, adapted to Go's
// (value, error) idiom.
func (r *PipeRunner) Run(data PipeableData) ([]PipeableData, error) {
	if len(r.Pipes) == 0 {
		return []PipeableData{data}, nil
	}
	results := []PipeableData{data}
	for _, stage := range r.Pipes {
		next, err := stage.Pipe(results[len(results)-1])
		if err != nil {
			return results, err
		}
		results = append(results, next)
	}
	return results, nil
}
