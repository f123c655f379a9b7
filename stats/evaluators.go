package stats

import "math"

// Evaluator derives an evaluated value from other values of the same
// statistics object. Dependencies lists the IDs the evaluator reads;
// the owning value re-evaluates whenever any of them changes.
type Evaluator interface {
	Dependencies() []int
	Evaluate(owner *Statistics, target Entry)
}

// DivisionEvaluator computes target = numerator / denominator over numeric
// values.
type DivisionEvaluator[T Number] struct {
	// NumeratorID and DenominatorID are the input value IDs.
	NumeratorID   int
	DenominatorID int
}

// Dependencies implements Evaluator.
func (e DivisionEvaluator[T]) Dependencies() []int { return []int{e.NumeratorID, e.DenominatorID} }

// Evaluate implements Evaluator.
func (e DivisionEvaluator[T]) Evaluate(owner *Statistics, target Entry) {
	num, err := Get[T](owner, e.NumeratorID)
	if err != nil {
		return
	}
	den, err := Get[T](owner, e.DenominatorID)
	if err != nil {
		return
	}

	n, okN := num.Current()
	d, okD := den.Current()
	if !okN || !okD || d == 0 {
		return
	}

	target.(*Value[T]).SetCurrent(n / d)
}

// SqrtEvaluator computes target = sqrt(input) over float64 values.
type SqrtEvaluator struct {
	// InputID is the source value ID.
	InputID int
}

// Dependencies implements Evaluator.
func (e SqrtEvaluator) Dependencies() []int { return []int{e.InputID} }

// Evaluate implements Evaluator.
func (e SqrtEvaluator) Evaluate(owner *Statistics, target Entry) {
	in, err := Get[float64](owner, e.InputID)
	if err != nil {
		return
	}

	v, ok := in.Current()
	if !ok {
		return
	}

	target.(*Value[float64]).SetCurrent(math.Sqrt(v))
}

// FuncEvaluator wires an arbitrary derivation over declared dependencies;
// used for payload types whose arithmetic lives outside this package (the
// population's average-fitness value divides a fitness sum by a count).
type FuncEvaluator struct {
	// Deps lists the value IDs the function reads.
	Deps []int

	// Fn computes and stores the derived value.
	Fn func(owner *Statistics, target Entry)
}

// Dependencies implements Evaluator.
func (e FuncEvaluator) Dependencies() []int { return e.Deps }

// Evaluate implements Evaluator.
func (e FuncEvaluator) Evaluate(owner *Statistics, target Entry) { e.Fn(owner, target) }
