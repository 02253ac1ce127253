package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runOK(t *testing.T, ev *Evaluator, src string) string {
	t.Helper()
	out, err := ev.Run(src)
	require.NoError(t, err, "evaluating %q", src)
	return out
}

func TestEvaluator_Arithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(+ 1 2 3)", "6"},
		{"(+ )", "0"},
		{"(- 10 1 2)", "7"},
		{"(- 5)", "5"},
		{"(* 2 3 4)", "24"},
		{"(* )", "1"},
		{"(/ 7 4)", "1"},
		{"(/ 100 5 2)", "10"},
		{"(min 3 1 2)", "1"},
		{"(max 3 1 2)", "3"},
		{"(abs -7)", "7"},
		{"(= 1 1 1)", "#t"},
		{"(< 1 2 3)", "#t"},
		{"(< 1 3 2)", "#f"},
		{"(<= 1 1 2)", "#t"},
		{"(>= 3 2 2)", "#t"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			ev := NewEvaluator()
			assert.Equal(t, tt.want, runOK(t, ev, tt.src))
		})
	}
}

func TestEvaluator_DivisionByZero(t *testing.T) {
	ev := NewEvaluator()
	_, err := ev.Run("(/ 1 0)")
	require.Error(t, err)
	assert.IsType(t, &RuntimeError{}, err)
}

func TestEvaluator_IfAndTruthiness(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(if #t 1 2)", "1"},
		{"(if #f 1 2)", "2"},
		{"(if 0 1 2)", "1"}, // only the symbol #f is false
		{"(if '() 1 2)", "1"},
		{"(and 1 2 3)", "3"},
		{"(and 1 #f 3)", "#f"},
		{"(or #f #f 5)", "5"},
		{"(or #f #f)", "#f"},
		{"(not #f)", "#t"},
		{"(not 0)", "#f"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			ev := NewEvaluator()
			assert.Equal(t, tt.want, runOK(t, ev, tt.src))
		})
	}
}

func TestEvaluator_IfArityIsSyntaxError(t *testing.T) {
	ev := NewEvaluator()
	_, err := ev.Run("(if 1)")
	require.Error(t, err)
	assert.IsType(t, &SyntaxError{}, err)
}

func TestEvaluator_DefineAndLookup(t *testing.T) {
	ev := NewEvaluator()
	runOK(t, ev, "(define x 10)")
	assert.Equal(t, "10", runOK(t, ev, "x"))
	assert.Equal(t, "15", runOK(t, ev, "(+ x 5)"))
}

func TestEvaluator_UnboundSymbolIsNameError(t *testing.T) {
	ev := NewEvaluator()
	_, err := ev.Run("not-defined")
	require.Error(t, err)
	assert.IsType(t, &NameError{}, err)
}

func TestEvaluator_SetMutatesExistingBinding(t *testing.T) {
	ev := NewEvaluator()
	runOK(t, ev, "(define x 1)")
	runOK(t, ev, "(set! x 2)")
	assert.Equal(t, "2", runOK(t, ev, "x"))
}

func TestEvaluator_SetUnboundIsNameError(t *testing.T) {
	ev := NewEvaluator()
	_, err := ev.Run("(set! nope 1)")
	require.Error(t, err)
	assert.IsType(t, &NameError{}, err)
}

func TestEvaluator_LambdaSugarAndCall(t *testing.T) {
	ev := NewEvaluator()
	runOK(t, ev, "(define (square x) (* x x))")
	assert.Equal(t, "25", runOK(t, ev, "(square 5)"))
}

func TestEvaluator_RecursiveFactorial(t *testing.T) {
	ev := NewEvaluator()
	runOK(t, ev, "(define (fact n) (if (<= n 1) 1 (* n (fact (- n 1)))))")
	assert.Equal(t, "120", runOK(t, ev, "(fact 5)"))
	assert.Equal(t, "1", runOK(t, ev, "(fact 0)"))
}

func TestEvaluator_ClosureArityMismatch(t *testing.T) {
	ev := NewEvaluator()
	runOK(t, ev, "(define (f x) x)")
	_, err := ev.Run("(f 1 2)")
	require.Error(t, err)
	assert.IsType(t, &RuntimeError{}, err)
}

// TestEvaluator_IndependentClosureCaptures verifies that two invocations of
// the same closure-returning function each capture their own fresh frame:
// mutating one counter's private state must not be visible to the other.
func TestEvaluator_IndependentClosureCaptures(t *testing.T) {
	ev := NewEvaluator()
	runOK(t, ev, `(define (make-counter)
	                (define n 0)
	                (lambda () (set! n (+ n 1)) n))`)
	runOK(t, ev, "(define c1 (make-counter))")
	runOK(t, ev, "(define c2 (make-counter))")

	assert.Equal(t, "1", runOK(t, ev, "(c1)"))
	assert.Equal(t, "2", runOK(t, ev, "(c1)"))
	assert.Equal(t, "1", runOK(t, ev, "(c2)"))
	assert.Equal(t, "3", runOK(t, ev, "(c1)"))
}

func TestEvaluator_ConsCarCdr(t *testing.T) {
	ev := NewEvaluator()
	assert.Equal(t, "(1 . 2)", runOK(t, ev, "(cons 1 2)"))
	assert.Equal(t, "1", runOK(t, ev, "(car '(1 2))"))
	assert.Equal(t, "(2)", runOK(t, ev, "(cdr '(1 2))"))
}

func TestEvaluator_CarOnEmptyListIsRuntimeError(t *testing.T) {
	ev := NewEvaluator()
	_, err := ev.Run("(car '())")
	require.Error(t, err)
	assert.IsType(t, &RuntimeError{}, err)
}

func TestEvaluator_PairPredicateIsFlattenedArity(t *testing.T) {
	// pair? here means "flattens to exactly two elements", not "is a cons
	// cell" — a non-standard quirk inherited from the source interpreter.
	tests := []struct {
		src  string
		want string
	}{
		{"(pair? (cons 1 2))", "#t"},
		{"(pair? '(1 2))", "#t"},
		{"(pair? '(1 2 3))", "#f"},
		{"(pair? '(1))", "#f"},
		{"(pair? '())", "#f"},
		{"(null? '())", "#t"},
		{"(null? '(1))", "#f"},
		{"(list? '(1 2 3))", "#t"},
		{"(list? (cons 1 2))", "#f"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			ev := NewEvaluator()
			assert.Equal(t, tt.want, runOK(t, ev, tt.src))
		})
	}
}

func TestEvaluator_ListOperations(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(list 1 2 3)", "(1 2 3)"},
		{"(list-ref '(1 2 3) 1)", "2"},
		{"(list-tail '(1 2 3) 1)", "(2 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			ev := NewEvaluator()
			assert.Equal(t, tt.want, runOK(t, ev, tt.src))
		})
	}
}

func TestEvaluator_ListRefOutOfRange(t *testing.T) {
	ev := NewEvaluator()
	_, err := ev.Run("(list-ref '(1 2) 5)")
	require.Error(t, err)
	assert.IsType(t, &RuntimeError{}, err)
}

func TestEvaluator_SetCarBuildsCycleWithoutCrashingGC(t *testing.T) {
	ev := NewEvaluator()
	runOK(t, ev, "(define p (cons 1 2))")
	runOK(t, ev, "(set-car! p p)")

	p, err := ev.heap.Lookup(ev.global, "p")
	require.NoError(t, err)
	assert.Equal(t, p, ev.heap.Car(p))

	assert.NotPanics(t, func() { ev.heap.Collect() })
}

func TestEvaluator_QuoteIsIdempotent(t *testing.T) {
	ev := NewEvaluator()
	assert.Equal(t, "(1 2 3)", runOK(t, ev, "'(1 2 3)"))
	assert.Equal(t, "foo", runOK(t, ev, "'foo"))
}

func TestEvaluator_BadArgumentTypeIsRuntimeError(t *testing.T) {
	ev := NewEvaluator()
	_, err := ev.Run("(+ 'a 1)")
	require.Error(t, err)
	assert.IsType(t, &RuntimeError{}, err)
}

func TestEvaluator_CallingNonFunctionIsRuntimeError(t *testing.T) {
	ev := NewEvaluator()
	_, err := ev.Run("(1 2 3)")
	require.Error(t, err)
	assert.IsType(t, &RuntimeError{}, err)
}
