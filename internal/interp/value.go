package interp

// Handle is an opaque arena index identifying a heap-allocated value. The
// zero Handle (NullHandle) represents the empty list and is never itself a
// heap slot.
type Handle int

// NullHandle is the empty list (). It is not a distinct heap object.
const NullHandle Handle = 0

// Kind tags the variant a node holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindInteger
	KindSymbol
	KindPair
	KindBuiltin
	KindClosure
	KindScope
)

// builtin describes a primitive procedure or special form: its name, arity
// bounds, whether it sees raw (unevaluated) arguments, whether arguments are
// pre-evaluated, an optional per-argument type check, and whether arity
// violations are syntax errors (special forms) or runtime errors
// (procedures).
type builtin struct {
	name          string
	minArgs       int
	maxArgs       int // -1 means unbounded
	rawArgs       bool
	skipEval      bool // special forms set this; procedures leave it false
	allowImproper bool
	argCheck      func(Handle, *Heap) bool
	argCheckMsg   string
	arityIsSyntax bool
	apply         func(ev *Evaluator, args []Handle) (Handle, error)
}

// node is one heap slot. Only the fields relevant to kind are meaningful;
// the rest are zero.
type node struct {
	kind   Kind
	free   bool
	marked bool

	integer int64  // KindInteger
	symbol  string // KindSymbol

	car, cdr Handle // KindPair

	fn *builtin // KindBuiltin

	params   []string // KindClosure
	body     []Handle // KindClosure
	captured Handle   // KindClosure
	name     string   // KindClosure (debug name, may be empty)

	parent   Handle            // KindScope
	bindings map[string]Handle // KindScope
	children map[string]Handle // KindScope
}

// IsNull reports whether handle denotes the empty list.
func IsNull(handle Handle) bool { return handle == NullHandle }
