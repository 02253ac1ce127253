package interp

import "fmt"

// installBuiltins binds the boolean self-evaluating symbols and the
// standard library (special forms and procedures) into the global scope.
func (ev *Evaluator) installBuiltins() {
	h := ev.heap

	h.Define(ev.global, "#t", h.NewSymbol("#t"))
	h.Define(ev.global, "#f", h.NewSymbol("#f"))

	for _, b := range specialForms() {
		h.Define(ev.global, b.name, h.NewBuiltin(b))
	}
	for _, b := range standardProcedures() {
		h.Define(ev.global, b.name, h.NewBuiltin(b))
	}
}

func isNumber(v Handle, h *Heap) bool {
	return !IsNull(v) && h.Kind(v) == KindInteger
}

// specialForms are built-ins with argument evaluation suppressed: the
// dispatcher hands them the unevaluated argument list and they evaluate
// (or don't) however their semantics require.
func specialForms() []*builtin {
	return []*builtin{
		{
			name: "quote", minArgs: 1, maxArgs: 1, skipEval: true,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				return args[0], nil
			},
		},
		{
			name: "if", minArgs: 2, maxArgs: 3, skipEval: true, arityIsSyntax: true,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				cond, err := ev.Eval(args[0])
				if err != nil {
					return NullHandle, err
				}
				if isTrue(ev.heap, cond) {
					return ev.Eval(args[1])
				}
				if len(args) < 3 {
					return NullHandle, nil
				}
				return ev.Eval(args[2])
			},
		},
		{
			name: "and", minArgs: 0, maxArgs: -1, skipEval: true,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				last := ev.heap.NewSymbol("#t")
				for _, a := range args {
					v, err := ev.Eval(a)
					if err != nil {
						return NullHandle, err
					}
					last = v
					if !isTrue(ev.heap, v) {
						break
					}
				}
				return last, nil
			},
		},
		{
			name: "or", minArgs: 0, maxArgs: -1, skipEval: true,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				last := ev.heap.NewSymbol("#f")
				for _, a := range args {
					v, err := ev.Eval(a)
					if err != nil {
						return NullHandle, err
					}
					last = v
					if isTrue(ev.heap, v) {
						break
					}
				}
				return last, nil
			},
		},
		{
			name: "define", minArgs: 2, maxArgs: -1, skipEval: true, arityIsSyntax: true,
			apply: applyDefine,
		},
		{
			name: "set!", minArgs: 2, maxArgs: 2, skipEval: true, arityIsSyntax: true,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				if IsNull(args[0]) || ev.heap.Kind(args[0]) != KindSymbol {
					return NullHandle, newRuntimeError("argument #0 for function 'set!' should be Symbol")
				}
				value, err := ev.Eval(args[1])
				if err != nil {
					return NullHandle, err
				}
				if err := ev.setValue(ev.heap.Symbol(args[0]), value); err != nil {
					return NullHandle, err
				}
				return ev.heap.NewEmpty(), nil
			},
		},
		{
			name: "lambda", minArgs: 2, maxArgs: -1, skipEval: true, arityIsSyntax: true,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				params, proper := vectorize(ev.heap, args[0])
				if !proper {
					return NullHandle, newSyntaxError("lambda parameter list must be a proper list")
				}
				names, err := symbolNames(ev.heap, params)
				if err != nil {
					return NullHandle, err
				}
				body := append([]Handle(nil), args[1:]...)
				return ev.heap.NewClosure(names, body, ev.current, ev.nextLambdaName()), nil
			},
		},
	}
}

func symbolNames(h *Heap, values []Handle) ([]string, error) {
	names := make([]string, len(values))
	for i, v := range values {
		if IsNull(v) || h.Kind(v) != KindSymbol {
			return nil, newRuntimeError("only symbols could be lambda arguments")
		}
		names[i] = h.Symbol(v)
	}
	return names, nil
}

func applyDefine(ev *Evaluator, args []Handle) (Handle, error) {
	h := ev.heap

	if !IsNull(args[0]) && h.Kind(args[0]) == KindSymbol {
		if len(args) > 2 {
			return NullHandle, newSyntaxError("too many arguments for function 'define'")
		}
		value, err := ev.Eval(args[1])
		if err != nil {
			return NullHandle, err
		}
		ev.defineValue(h.Symbol(args[0]), value)
		return h.NewEmpty(), nil
	}

	// (define (f p...) body...) desugars to (define f (lambda (p...) body...)).
	if IsNull(args[0]) || h.Kind(args[0]) != KindPair {
		return NullHandle, newSyntaxError("incorrect usage of define")
	}
	spec, proper := vectorize(h, args[0])
	if !proper || len(spec) == 0 || IsNull(spec[0]) || h.Kind(spec[0]) != KindSymbol {
		return NullHandle, newSyntaxError("incorrect function name")
	}
	fnName := h.Symbol(spec[0])
	params, err := symbolNames(h, spec[1:])
	if err != nil {
		return NullHandle, err
	}
	body := append([]Handle(nil), args[1:]...)
	// CreateLambda in the source interpreter always assigns a fresh
	// "lambda_N" debug name; define's lambda sugar binds the symbol in the
	// environment but never renames the closure itself.
	closure := h.NewClosure(params, body, ev.current, ev.nextLambdaName())
	ev.defineValue(fnName, closure)
	return h.NewEmpty(), nil
}

// standardProcedures are built-ins whose arguments are pre-evaluated
// (except car/cdr, which are raw).
func standardProcedures() []*builtin {
	list := []*builtin{
		typePredicate("number?", isNumber),
		typePredicate("boolean?", func(v Handle, h *Heap) bool {
			return !IsNull(v) && h.Kind(v) == KindSymbol && (h.Symbol(v) == "#t" || h.Symbol(v) == "#f")
		}),
		typePredicate("symbol?", func(v Handle, h *Heap) bool { return !IsNull(v) && h.Kind(v) == KindSymbol }),
		{
			name: "pair?", minArgs: 1, maxArgs: 1,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				values, _ := vectorize(ev.heap, args[0])
				return boolSymbol(ev.heap, len(values) == 2), nil
			},
		},
		{
			name: "null?", minArgs: 1, maxArgs: 1,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				values, _ := vectorize(ev.heap, args[0])
				return boolSymbol(ev.heap, len(values) == 0), nil
			},
		},
		{
			name: "list?", minArgs: 1, maxArgs: 1,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				_, proper := vectorize(ev.heap, args[0])
				return boolSymbol(ev.heap, proper), nil
			},
		},

		monotonic("=", func(a, b int64) bool { return a == b }),
		monotonic("<", func(a, b int64) bool { return a < b }),
		monotonic(">", func(a, b int64) bool { return a > b }),
		monotonic("<=", func(a, b int64) bool { return a <= b }),
		monotonic(">=", func(a, b int64) bool { return a >= b }),

		foldOp("+", 0, 0, func(a, b int64) int64 { return a + b }),
		foldOp("*", 1, 0, func(a, b int64) int64 { return a * b }),
		foldOp1("-", func(a, b int64) int64 { return a - b }),
		{
			name: "/", minArgs: 1, maxArgs: -1, argCheck: isNumber, argCheckMsg: "accepts only numbers",
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				acc := ev.heap.Integer(args[0])
				for _, a := range args[1:] {
					cur := ev.heap.Integer(a)
					if cur == 0 {
						return NullHandle, newRuntimeError("division by zero")
					}
					acc /= cur
				}
				return ev.heap.NewInteger(acc), nil
			},
		},
		foldOp1("min", func(a, b int64) int64 {
			if a < b {
				return a
			}
			return b
		}),
		foldOp1("max", func(a, b int64) int64 {
			if a > b {
				return a
			}
			return b
		}),
		{
			name: "abs", minArgs: 1, maxArgs: 1, argCheck: isNumber, argCheckMsg: "accepts only numbers",
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				v := ev.heap.Integer(args[0])
				if v < 0 {
					v = -v
				}
				return ev.heap.NewInteger(v), nil
			},
		},

		{
			name: "not", minArgs: 1, maxArgs: 1,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				return boolSymbol(ev.heap, !isTrue(ev.heap, args[0])), nil
			},
		},

		{
			name: "cons", minArgs: 2, maxArgs: 2,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				return ev.heap.NewPair(args[0], args[1]), nil
			},
		},
		{
			name: "car", minArgs: 1, maxArgs: 1, rawArgs: true,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				return carCdr(ev, args[0], true)
			},
		},
		{
			name: "cdr", minArgs: 1, maxArgs: 1, rawArgs: true,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				return carCdr(ev, args[0], false)
			},
		},
		{
			name: "list", minArgs: 0, maxArgs: -1,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				result := NullHandle
				for i := len(args) - 1; i >= 0; i-- {
					result = ev.heap.NewPair(args[i], result)
				}
				return result, nil
			},
		},
		{
			name: "list-ref", minArgs: 2, maxArgs: 2,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				values, _ := vectorize(ev.heap, args[0])
				if IsNull(args[1]) || ev.heap.Kind(args[1]) != KindInteger {
					return NullHandle, newRuntimeError("argument #1 for function 'list-ref' should be Number")
				}
				idx := ev.heap.Integer(args[1])
				if idx < 0 || idx >= int64(len(values)) {
					return NullHandle, newRuntimeError("argument #1 for function 'list-ref' is out of range")
				}
				return values[idx], nil
			},
		},
		{
			name: "list-tail", minArgs: 2, maxArgs: 2,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				if IsNull(args[1]) || ev.heap.Kind(args[1]) != KindInteger {
					return NullHandle, newRuntimeError("argument #1 for function 'list-tail' should be Number")
				}
				cur := args[0]
				idx := ev.heap.Integer(args[1])
				for idx > 0 {
					if IsNull(cur) || ev.heap.Kind(cur) != KindPair {
						return NullHandle, newRuntimeError("argument #1 for function 'list-tail' is out of range")
					}
					idx--
					cur = ev.heap.Cdr(cur)
				}
				return cur, nil
			},
		},
		{
			name: "set-car!", minArgs: 2, maxArgs: 2,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				if IsNull(args[0]) || ev.heap.Kind(args[0]) != KindPair {
					return NullHandle, newRuntimeError("argument #0 for function 'set-car!' should be a pair")
				}
				ev.heap.SetCar(args[0], args[1])
				return ev.heap.NewEmpty(), nil
			},
		},
		{
			name: "set-cdr!", minArgs: 2, maxArgs: 2,
			apply: func(ev *Evaluator, args []Handle) (Handle, error) {
				if IsNull(args[0]) || ev.heap.Kind(args[0]) != KindPair {
					return NullHandle, newRuntimeError("argument #0 for function 'set-cdr!' should be a pair")
				}
				ev.heap.SetCdr(args[0], args[1])
				return ev.heap.NewEmpty(), nil
			},
		},
	}
	return list
}

// carCdr implements the "raw" argument contract shared by car and cdr: the
// dispatcher hands over the unevaluated single-argument cell; the built-in
// evaluates the argument expression itself exactly once and requires the
// result to be a Pair before extracting the requested field.
func carCdr(ev *Evaluator, rawArgList Handle, wantCar bool) (Handle, error) {
	name := "cdr"
	if wantCar {
		name = "car"
	}
	if IsNull(rawArgList) || ev.heap.Kind(rawArgList) != KindPair {
		return NullHandle, newRuntimeError(fmt.Sprintf("using %s on empty list / not list", name))
	}
	data, err := ev.Eval(ev.heap.Car(rawArgList))
	if err != nil {
		return NullHandle, err
	}
	if IsNull(data) || ev.heap.Kind(data) != KindPair {
		return NullHandle, newRuntimeError(fmt.Sprintf("using %s on empty list / not list", name))
	}
	if wantCar {
		return ev.heap.Car(data), nil
	}
	return ev.heap.Cdr(data), nil
}

func typePredicate(name string, check func(Handle, *Heap) bool) *builtin {
	return &builtin{
		name: name, minArgs: 1, maxArgs: 1,
		apply: func(ev *Evaluator, args []Handle) (Handle, error) {
			return boolSymbol(ev.heap, check(args[0], ev.heap)), nil
		},
	}
}

func monotonic(name string, cmp func(a, b int64) bool) *builtin {
	return &builtin{
		name: name, minArgs: 0, maxArgs: -1, argCheck: isNumber, argCheckMsg: "accepts only numbers",
		apply: func(ev *Evaluator, args []Handle) (Handle, error) {
			if len(args) < 2 {
				return ev.heap.NewSymbol("#t"), nil
			}
			prev := ev.heap.Integer(args[0])
			for _, a := range args[1:] {
				cur := ev.heap.Integer(a)
				if !cmp(prev, cur) {
					return ev.heap.NewSymbol("#f"), nil
				}
				prev = cur
			}
			return ev.heap.NewSymbol("#t"), nil
		},
	}
}

// foldOp builds a 0..∞-arity arithmetic fold with an explicit identity
// value for the zero-argument case (+, *).
func foldOp(name string, identity int64, minArgs int, op func(a, b int64) int64) *builtin {
	return &builtin{
		name: name, minArgs: minArgs, maxArgs: -1, argCheck: isNumber, argCheckMsg: "accepts only numbers",
		apply: func(ev *Evaluator, args []Handle) (Handle, error) {
			if len(args) == 0 {
				return ev.heap.NewInteger(identity), nil
			}
			acc := ev.heap.Integer(args[0])
			for _, a := range args[1:] {
				acc = op(acc, ev.heap.Integer(a))
			}
			return ev.heap.NewInteger(acc), nil
		},
	}
}

// foldOp1 builds a 1..∞-arity arithmetic fold where the one-argument form
// returns its argument unchanged (-, min, max).
func foldOp1(name string, op func(a, b int64) int64) *builtin {
	return &builtin{
		name: name, minArgs: 1, maxArgs: -1, argCheck: isNumber, argCheckMsg: "accepts only numbers",
		apply: func(ev *Evaluator, args []Handle) (Handle, error) {
			acc := ev.heap.Integer(args[0])
			for _, a := range args[1:] {
				acc = op(acc, ev.heap.Integer(a))
			}
			return ev.heap.NewInteger(acc), nil
		},
	}
}
