package interp

import (
	"strconv"
	"strings"
)

// Print renders handle in the canonical textual form.
func Print(h *Heap, handle Handle) string {
	if IsNull(handle) {
		return "()"
	}
	switch h.Kind(handle) {
	case KindEmpty:
		return ""
	case KindInteger:
		return strconv.FormatInt(h.Integer(handle), 10)
	case KindSymbol:
		return h.Symbol(handle)
	case KindPair:
		return printPair(h, handle, false)
	case KindBuiltin:
		return "<function '" + h.Builtin(handle).name + "'>"
	case KindClosure:
		var sb strings.Builder
		sb.WriteString("<lambda '")
		sb.WriteString(h.ClosureName(handle))
		sb.WriteString("' with args:")
		for _, p := range h.ClosureParams(handle) {
			sb.WriteString(" '")
			sb.WriteString(p)
			sb.WriteByte('\'')
		}
		sb.WriteByte('>')
		return sb.String()
	case KindScope:
		return "<scope>"
	default:
		return ""
	}
}

// printPair walks a Pair chain: space-separated while the cdr is itself a
// pair, dotted notation otherwise.
func printPair(h *Heap, handle Handle, inList bool) string {
	var sb strings.Builder
	if !inList {
		sb.WriteByte('(')
	}

	car := h.Car(handle)
	if IsNull(car) {
		sb.WriteString("()")
	} else if h.Kind(car) == KindPair {
		sb.WriteString(printPair(h, car, false))
	} else {
		sb.WriteString(Print(h, car))
	}

	cdr := h.Cdr(handle)
	switch {
	case IsNull(cdr):
		sb.WriteByte(')')
	case h.Kind(cdr) == KindPair:
		sb.WriteByte(' ')
		sb.WriteString(printPair(h, cdr, true))
	default:
		sb.WriteString(" . ")
		sb.WriteString(Print(h, cdr))
		sb.WriteByte(')')
	}
	return sb.String()
}
