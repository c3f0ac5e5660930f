package ports

// Evaluator evaluates a pure expression against named numeric variables.
// Implementations must be side-effect free and must never panic: every
// failure is returned as an error value. Boolean results are mapped to
// 1 (true) and 0 (false) so that conditions and formulas share one contract.
type Evaluator interface {
	Evaluate(expression string, vars map[string]float64) (float64, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(expression string, vars map[string]float64) (float64, error)

func (f EvaluatorFunc) Evaluate(expression string, vars map[string]float64) (float64, error) {
	return f(expression, vars)
}
