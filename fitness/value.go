package fitness

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Fitness is the value stored per chromosome, both raw and scaled. All
// arithmetic is component-wise and requires operands of identical shape and
// dimension.
type Fitness interface {
	// Clone returns an independent copy sharing the same parameters.
	Clone() Fitness

	// Clear resets every component to zero.
	Clear()

	// ProbabilityBase returns the scalar used as this chromosome's weight by
	// selection and scaling.
	ProbabilityBase() float64

	// Distance returns the distance to another fitness of the same shape.
	Distance(other Fitness) (float64, error)

	// Add accumulates other into the receiver.
	Add(other Fitness) error

	// Sub subtracts other from the receiver.
	Sub(other Fitness) error

	// Div divides every component by n.
	Div(n int) error

	// Progress returns the receiver minus previous as a new fitness.
	Progress(previous Fitness) (Fitness, error)

	// RelativeProgress returns |(current - previous) / current| summed over
	// the components that define the variant's scalar view.
	RelativeProgress(previous Fitness) (float64, error)

	// Equal reports whether other has the same shape and component values.
	Equal(other Fitness) bool
}

// Factory produces fitness objects of one variant bound to shared
// parameters; populations use it to equip chromosome storages.
type Factory interface {
	// CreateFitness returns a cleared fitness object.
	CreateFitness() Fitness
}

// compareScalars orders two scalars with the larger value reading as better:
// -1 when a is larger, 1 when b is larger, 0 on equality. Comparators flip
// the result for the minimising sense.
func compareScalars(a, b float64) int {
	switch {
	case a > b:
		return -1
	case b > a:
		return 1
	default:
		return 0
	}
}

// Single is the single-value fitness variant.
type Single struct {
	value float64
}

// NewSingle creates a single-value fitness.
func NewSingle(value float64) *Single { return &Single{value: value} }

// Value returns the stored value.
func (f *Single) Value() float64 { return f.value }

// SetValue replaces the stored value.
func (f *Single) SetValue(value float64) { f.value = value }

// Clone implements Fitness.
func (f *Single) Clone() Fitness { c := *f; return &c }

// Clear implements Fitness.
func (f *Single) Clear() { f.value = 0 }

// ProbabilityBase implements Fitness.
func (f *Single) ProbabilityBase() float64 { return f.value }

// CompareValues orders two single values, larger reading as better.
func (f *Single) CompareValues(other *Single) int { return compareScalars(f.value, other.value) }

// Distance implements Fitness.
func (f *Single) Distance(other Fitness) (float64, error) {
	o, ok := other.(*Single)
	if !ok {
		return 0, ErrDimensionMismatch
	}

	return math.Abs(f.value - o.value), nil
}

// Add implements Fitness.
func (f *Single) Add(other Fitness) error {
	o, ok := other.(*Single)
	if !ok {
		return ErrDimensionMismatch
	}
	f.value += o.value

	return nil
}

// Sub implements Fitness.
func (f *Single) Sub(other Fitness) error {
	o, ok := other.(*Single)
	if !ok {
		return ErrDimensionMismatch
	}
	f.value -= o.value

	return nil
}

// Div implements Fitness.
func (f *Single) Div(n int) error {
	f.value /= float64(n)
	return nil
}

// Progress implements Fitness.
func (f *Single) Progress(previous Fitness) (Fitness, error) {
	p := f.Clone()
	if err := p.Sub(previous); err != nil {
		return nil, err
	}

	return p, nil
}

// RelativeProgress implements Fitness.
func (f *Single) RelativeProgress(previous Fitness) (float64, error) {
	o, ok := previous.(*Single)
	if !ok {
		return 0, ErrDimensionMismatch
	}

	return math.Abs((f.value - o.value) / f.value), nil
}

// Equal implements Fitness.
func (f *Single) Equal(other Fitness) bool {
	o, ok := other.(*Single)
	return ok && f.value == o.value
}

// SingleFactory creates Single values.
type SingleFactory struct{}

// CreateFitness implements Factory.
func (SingleFactory) CreateFitness() Fitness { return &Single{} }

// Multi is the multi-value fitness variant: an ordered vector of objective
// values sharing one Params instance across the population.
type Multi struct {
	values []float64
	params *Params
}

// NewMulti creates a cleared multi-value fitness bound to params.
func NewMulti(params *Params) *Multi {
	return &Multi{values: make([]float64, params.ValueCount()), params: params}
}

// Values exposes the objective vector; mutating it mutates the fitness.
func (f *Multi) Values() []float64 { return f.values }

// SetValues copies the given objective values into the fitness.
func (f *Multi) SetValues(values []float64) error {
	if len(values) != len(f.values) {
		return ErrDimensionMismatch
	}
	copy(f.values, values)

	return nil
}

// SetValue replaces one objective value.
func (f *Multi) SetValue(index int, value float64) error {
	if index < 0 || index >= len(f.values) {
		return ErrProbabilityIndex
	}
	f.values[index] = value

	return nil
}

// Params returns the shared parameters.
func (f *Multi) Params() *Params { return f.params }

// Clone implements Fitness.
func (f *Multi) Clone() Fitness {
	return &Multi{values: append([]float64(nil), f.values...), params: f.params}
}

// Clear implements Fitness.
func (f *Multi) Clear() {
	for i := range f.values {
		f.values[i] = 0
	}
}

// ProbabilityBase implements Fitness.
func (f *Multi) ProbabilityBase() float64 { return f.values[f.params.ProbabilityBaseIndex()] }

// CompareAt orders the objective values at one index, larger reading as
// better.
func (f *Multi) CompareAt(other *Multi, index int) int {
	return compareScalars(f.values[index], other.values[index])
}

// Distance implements Fitness: Euclidean distance over the vectors.
func (f *Multi) Distance(other Fitness) (float64, error) {
	o, err := f.comparable(other)
	if err != nil {
		return 0, err
	}

	return floats.Distance(f.values, o.values, 2), nil
}

// Add implements Fitness.
func (f *Multi) Add(other Fitness) error {
	o, err := f.comparable(other)
	if err != nil {
		return err
	}
	floats.Add(f.values, o.values)

	return nil
}

// Sub implements Fitness.
func (f *Multi) Sub(other Fitness) error {
	o, err := f.comparable(other)
	if err != nil {
		return err
	}
	floats.Sub(f.values, o.values)

	return nil
}

// Div implements Fitness.
func (f *Multi) Div(n int) error {
	floats.Scale(1/float64(n), f.values)
	return nil
}

// Progress implements Fitness.
func (f *Multi) Progress(previous Fitness) (Fitness, error) {
	p := f.Clone()
	if err := p.Sub(previous); err != nil {
		return nil, err
	}

	return p, nil
}

// RelativeProgress implements Fitness: the per-objective relative deltas are
// accumulated.
func (f *Multi) RelativeProgress(previous Fitness) (float64, error) {
	o, err := f.comparable(previous)
	if err != nil {
		return 0, err
	}

	progress := 0.0
	for i, v := range f.values {
		progress += math.Abs((v - o.values[i]) / v)
	}

	return progress, nil
}

// Equal implements Fitness.
func (f *Multi) Equal(other Fitness) bool {
	o, ok := other.(*Multi)
	return ok && floats.Equal(f.values, o.values)
}

func (f *Multi) comparable(other Fitness) (*Multi, error) {
	o, ok := other.(*Multi)
	if !ok || len(o.values) != len(f.values) {
		return nil, ErrDimensionMismatch
	}

	return o, nil
}

// MultiFactory creates Multi values bound to one shared Params.
type MultiFactory struct {
	// Params is shared by every created fitness.
	Params *Params
}

// CreateFitness implements Factory.
func (f MultiFactory) CreateFitness() Fitness { return NewMulti(f.Params) }

// Weighted is the weighted-sum fitness variant: the same vector storage as
// Multi plus a maintained scalar sum Σ wᵢ·vᵢ that serves as probability base
// and comparison key.
type Weighted struct {
	values []float64
	params *WeightedParams
	sum    float64
}

// NewWeighted creates a cleared weighted fitness bound to params.
func NewWeighted(params *WeightedParams) *Weighted {
	return &Weighted{values: make([]float64, params.ValueCount()), params: params}
}

// Values returns a copy of the objective vector; mutate through SetValue or
// SetValues so the weighted sum stays consistent.
func (f *Weighted) Values() []float64 { return append([]float64(nil), f.values...) }

// WeightedSum returns the maintained Σ wᵢ·vᵢ.
func (f *Weighted) WeightedSum() float64 { return f.sum }

// Params returns the shared parameters.
func (f *Weighted) Params() *WeightedParams { return f.params }

// SetValues copies the given objective values and recomputes the sum.
func (f *Weighted) SetValues(values []float64) error {
	if len(values) != len(f.values) {
		return ErrDimensionMismatch
	}
	copy(f.values, values)
	f.refreshSum()

	return nil
}

// SetValue replaces one objective value and recomputes the sum.
func (f *Weighted) SetValue(index int, value float64) error {
	if index < 0 || index >= len(f.values) {
		return ErrProbabilityIndex
	}
	f.values[index] = value
	f.refreshSum()

	return nil
}

func (f *Weighted) refreshSum() { f.sum = floats.Dot(f.params.Weights(), f.values) }

// Clone implements Fitness.
func (f *Weighted) Clone() Fitness {
	return &Weighted{values: append([]float64(nil), f.values...), params: f.params, sum: f.sum}
}

// Clear implements Fitness.
func (f *Weighted) Clear() {
	for i := range f.values {
		f.values[i] = 0
	}
	f.sum = 0
}

// ProbabilityBase implements Fitness.
func (f *Weighted) ProbabilityBase() float64 { return f.sum }

// CompareValues orders two weighted fitnesses by their sums, larger reading
// as better.
func (f *Weighted) CompareValues(other *Weighted) int { return compareScalars(f.sum, other.sum) }

// Distance implements Fitness: Euclidean distance over the vectors.
func (f *Weighted) Distance(other Fitness) (float64, error) {
	o, err := f.comparable(other)
	if err != nil {
		return 0, err
	}

	return floats.Distance(f.values, o.values, 2), nil
}

// Add implements Fitness.
func (f *Weighted) Add(other Fitness) error {
	o, err := f.comparable(other)
	if err != nil {
		return err
	}
	floats.Add(f.values, o.values)
	f.refreshSum()

	return nil
}

// Sub implements Fitness.
func (f *Weighted) Sub(other Fitness) error {
	o, err := f.comparable(other)
	if err != nil {
		return err
	}
	floats.Sub(f.values, o.values)
	f.refreshSum()

	return nil
}

// Div implements Fitness.
func (f *Weighted) Div(n int) error {
	floats.Scale(1/float64(n), f.values)
	f.refreshSum()

	return nil
}

// Progress implements Fitness.
func (f *Weighted) Progress(previous Fitness) (Fitness, error) {
	p := f.Clone()
	if err := p.Sub(previous); err != nil {
		return nil, err
	}

	return p, nil
}

// RelativeProgress implements Fitness: the ratio of weighted sums.
func (f *Weighted) RelativeProgress(previous Fitness) (float64, error) {
	o, err := f.comparable(previous)
	if err != nil {
		return 0, err
	}

	return math.Abs((f.sum - o.sum) / f.sum), nil
}

// Equal implements Fitness.
func (f *Weighted) Equal(other Fitness) bool {
	o, ok := other.(*Weighted)
	return ok && floats.Equal(f.values, o.values)
}

func (f *Weighted) comparable(other Fitness) (*Weighted, error) {
	o, ok := other.(*Weighted)
	if !ok || len(o.values) != len(f.values) {
		return nil, ErrDimensionMismatch
	}

	return o, nil
}

// WeightedFactory creates Weighted values bound to one shared
// WeightedParams.
type WeightedFactory struct {
	// Params is shared by every created fitness.
	Params *WeightedParams
}

// CreateFitness implements Factory.
func (f WeightedFactory) CreateFitness() Fitness { return NewWeighted(f.Params) }
