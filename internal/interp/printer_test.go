package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint_Atoms(t *testing.T) {
	h := NewHeap()
	assert.Equal(t, "()", Print(h, NullHandle))
	assert.Equal(t, "42", Print(h, h.NewInteger(42)))
	assert.Equal(t, "-3", Print(h, h.NewInteger(-3)))
	assert.Equal(t, "foo", Print(h, h.NewSymbol("foo")))
}

func TestPrint_ProperList(t *testing.T) {
	h := NewHeap()
	v := h.NewPair(h.NewInteger(1), h.NewPair(h.NewInteger(2), NullHandle))
	assert.Equal(t, "(1 2)", Print(h, v))
}

func TestPrint_DottedPair(t *testing.T) {
	h := NewHeap()
	v := h.NewPair(h.NewInteger(1), h.NewInteger(2))
	assert.Equal(t, "(1 . 2)", Print(h, v))
}

func TestPrint_NestedList(t *testing.T) {
	h := NewHeap()
	inner := h.NewPair(h.NewInteger(2), h.NewPair(h.NewInteger(3), NullHandle))
	v := h.NewPair(h.NewInteger(1), h.NewPair(inner, NullHandle))
	assert.Equal(t, "(1 (2 3))", Print(h, v))
}

func TestPrint_Builtin(t *testing.T) {
	h := NewHeap()
	b := h.NewBuiltin(&builtin{name: "car"})
	assert.Equal(t, "<function 'car'>", Print(h, b))
}

func TestPrint_Closure(t *testing.T) {
	h := NewHeap()
	c := h.NewClosure([]string{"a", "b"}, nil, NullHandle, "add")
	assert.Equal(t, "<lambda 'add' with args: 'a' 'b'>", Print(h, c))
}
