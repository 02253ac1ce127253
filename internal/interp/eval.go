package interp

import "fmt"

// Evaluator holds the two pieces of per-session state: the fixed global
// scope and the scope currently executing, threaded through closure
// invocations and reset to global at the start of every Run.
type Evaluator struct {
	heap          *Heap
	global        Handle
	current       Handle
	scopeCounter  int
	lambdaCounter int
}

// NewEvaluator builds a fresh session: a heap with its hidden root scope, a
// global scope registered as that root's only child, and the standard
// library installed in the global scope.
func NewEvaluator() *Evaluator {
	h := NewHeap()
	global := h.NewScope(NullHandle)
	h.DefineChildScope(h.Root(), "global", global)

	ev := &Evaluator{heap: h, global: global, current: global}
	ev.installBuiltins()
	return ev
}

// Heap exposes the underlying arena, e.g. for the -stats REPL flag.
func (ev *Evaluator) Heap() *Heap { return ev.heap }

// nextLambdaName hands out the anonymous "lambda_N" debug name every
// closure gets at creation, whether built by the bare lambda special form
// or by define's lambda-sugar desugaring; neither path renames a closure
// after the fact.
func (ev *Evaluator) nextLambdaName() string {
	name := fmt.Sprintf("lambda_%d", ev.lambdaCounter)
	ev.lambdaCounter++
	return name
}

// Run tokenizes, reads, and evaluates one input line against the
// persistent global environment, returning the printed result.
func (ev *Evaluator) Run(input string) (string, error) {
	ev.heap.Collect()

	tok, err := NewTokenizer(input)
	if err != nil {
		return "", err
	}
	datum, err := Read(ev.heap, tok)
	if err != nil {
		return "", err
	}
	if !tok.AtEnd() {
		return "", newSyntaxError("expected end of line")
	}

	ev.current = ev.global
	result, err := ev.Eval(datum)
	if err != nil {
		return "", err
	}

	text := Print(ev.heap, result)
	ev.heap.Collect()
	return text, nil
}

// Eval dispatches a value: self-evaluating atoms return themselves, symbols
// resolve through the current scope chain, and pairs are applied as a
// procedure call against their own (rewritten-in-place) head.
func (ev *Evaluator) Eval(v Handle) (Handle, error) {
	if IsNull(v) {
		return NullHandle, newRuntimeError("can't execute nullptr")
	}
	switch ev.heap.Kind(v) {
	case KindInteger:
		return v, nil
	case KindSymbol:
		return ev.heap.Lookup(ev.current, ev.heap.Symbol(v))
	case KindBuiltin, KindClosure:
		return v, nil
	case KindPair:
		head := ev.heap.Car(v)
		evaledHead, err := ev.Eval(head)
		if err != nil {
			return NullHandle, err
		}
		ev.heap.SetCar(v, evaledHead)
		tail := ev.heap.Cdr(v)

		switch ev.heap.Kind(evaledHead) {
		case KindBuiltin:
			return ev.callBuiltin(ev.heap.Builtin(evaledHead), tail)
		case KindClosure:
			return ev.callClosure(evaledHead, tail)
		default:
			return NullHandle, newRuntimeError("can't call non-function")
		}
	default:
		return NullHandle, newRuntimeError("can't execute value of this type")
	}
}

// vectorize flattens a Pair chain into a slice, reporting whether it ended
// in the null list (proper) or something else (improper, with the
// trailing value appended as the last element).
func vectorize(h *Heap, list Handle) ([]Handle, bool) {
	var values []Handle
	for !IsNull(list) {
		if h.Kind(list) != KindPair {
			values = append(values, list)
			return values, false
		}
		values = append(values, h.Car(list))
		list = h.Cdr(list)
	}
	return values, true
}

// isTrue implements the language's truthiness rule: only the symbol #f is
// false.
func isTrue(h *Heap, v Handle) bool {
	if IsNull(v) {
		return true
	}
	if h.Kind(v) != KindSymbol {
		return true
	}
	return h.Symbol(v) != "#f"
}

func boolSymbol(h *Heap, v bool) Handle {
	if v {
		return h.NewSymbol("#t")
	}
	return h.NewSymbol("#f")
}

// defineValue installs name in the current scope, deep-copying the value
// unless it is a stateless Builtin.
func (ev *Evaluator) defineValue(name string, value Handle) {
	if !IsNull(value) && ev.heap.Kind(value) == KindBuiltin {
		ev.heap.Define(ev.current, name, value)
		return
	}
	ev.heap.Define(ev.current, name, ev.heap.DeepCopy(value))
}

// setValue overwrites an existing binding in the scope that owns it.
func (ev *Evaluator) setValue(name string, value Handle) error {
	scope, err := ev.heap.FindScope(ev.current, name)
	if err != nil {
		return err
	}
	if !IsNull(value) && ev.heap.Kind(value) == KindBuiltin {
		ev.heap.Define(scope, name, value)
	} else {
		ev.heap.Define(scope, name, ev.heap.DeepCopy(value))
	}
	return nil
}

// callBuiltin implements the dispatch contract of spec.md §4.5.3: raw
// builtins see the unevaluated argument pair untouched; everything else is
// vectorized, arity-checked, optionally evaluated, optionally type-checked,
// then handed to apply.
func (ev *Evaluator) callBuiltin(b *builtin, rawArgs Handle) (Handle, error) {
	if b.rawArgs {
		return b.apply(ev, []Handle{rawArgs})
	}

	values, proper := vectorize(ev.heap, rawArgs)
	if !proper && !b.allowImproper {
		return NullHandle, newSyntaxError(
			"improper list can't be interpreted as arguments for function '%s'", b.name)
	}

	n := len(values)
	if n < b.minArgs || (b.maxArgs >= 0 && n > b.maxArgs) {
		msg := arityMessage(b, n)
		if b.arityIsSyntax {
			return NullHandle, newSyntaxError(msg)
		}
		return NullHandle, newRuntimeError(msg)
	}

	if !b.skipEval {
		for i, a := range values {
			r, err := ev.Eval(a)
			if err != nil {
				return NullHandle, err
			}
			values[i] = r
		}
	}

	if b.argCheck != nil {
		for i, a := range values {
			if !b.argCheck(a, ev.heap) {
				msg := fmt.Sprintf("bad argument #%d for function '%s'.", i, b.name)
				if b.argCheckMsg != "" {
					msg += " " + b.argCheckMsg
				}
				return NullHandle, newRuntimeError(msg)
			}
		}
	}

	return b.apply(ev, values)
}

func arityMessage(b *builtin, got int) string {
	if got < b.minArgs {
		return fmt.Sprintf("not enough arguments for function '%s'. Expected at least %d, but got %d.",
			b.name, b.minArgs, got)
	}
	return fmt.Sprintf("too many arguments for function '%s'. Expected at most %d, but got %d.",
		b.name, b.maxArgs, got)
}

// callClosure implements spec.md §4.5.4. Arguments are evaluated in the
// caller's scope before the fresh call frame is entered; the closure's body
// is deep-copied per call since evaluation rewrites pair cars in place
// (§4.5.2) and a shared body would corrupt recursive calls.
func (ev *Evaluator) callClosure(closureHandle Handle, rawArgs Handle) (Handle, error) {
	values, proper := vectorize(ev.heap, rawArgs)
	if !proper {
		return NullHandle, newRuntimeError("improper argument list for closure call")
	}

	params := ev.heap.ClosureParams(closureHandle)
	if len(values) != len(params) {
		name := ev.heap.ClosureName(closureHandle)
		return NullHandle, newRuntimeError(fmt.Sprintf(
			"invalid amount of arguments for lambda function '%s'. Expected %d, but got %d",
			name, len(params), len(values)))
	}

	captured := ev.heap.ClosureScope(closureHandle)
	frame := ev.heap.NewScope(captured)
	frameName := fmt.Sprintf("scope_%d", ev.scopeCounter)
	ev.scopeCounter++
	ev.heap.DefineChildScope(captured, frameName, frame)

	evaluated := make([]Handle, len(values))
	for i, a := range values {
		r, err := ev.Eval(a)
		if err != nil {
			ev.heap.RemoveChildScope(captured, frameName)
			return NullHandle, err
		}
		evaluated[i] = r
	}
	for i, p := range params {
		ev.heap.Define(frame, p, evaluated[i])
	}

	caller := ev.current
	ev.current = frame

	body := ev.heap.ClosureBody(closureHandle)
	bodyCopy := make([]Handle, len(body))
	for i, e := range body {
		bodyCopy[i] = ev.heap.DeepCopy(e)
	}

	var result Handle = ev.heap.NewEmpty()
	var evalErr error
	for _, e := range bodyCopy {
		result, evalErr = ev.Eval(e)
		if evalErr != nil {
			break
		}
	}

	ev.heap.RemoveChildScope(captured, frameName)
	ev.current = caller

	if evalErr != nil {
		return NullHandle, evalErr
	}
	return result, nil
}
