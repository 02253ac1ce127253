package interp

// Heap owns every value in a session. It is a non-moving arena: allocation
// hands out a Handle that stays valid until the value is swept. Garbage is
// reclaimed with a non-incremental mark-and-sweep pass rooted at a hidden
// root scope, mirroring the allocation/deallocation counters the original
// interpreter exposed for GC-soundness testing.
type Heap struct {
	nodes        []node
	freeList     []Handle
	root         Handle
	allocCount   int
	deallocCount int
}

// HeapStats reports the session allocation counters, reset implicitly by
// nothing — they accumulate for the lifetime of the heap and are surfaced by
// the -stats REPL flag.
type HeapStats struct {
	AllocCount   int
	DeallocCount int
	Live         int
}

// NewHeap creates a heap with its hidden root scope already installed as
// node 0's successor; node 0 itself is an unused sentinel so that the zero
// Handle can be reserved for the null list.
func NewHeap() *Heap {
	h := &Heap{}
	h.nodes = append(h.nodes, node{free: true}) // index 0: NullHandle sentinel
	h.root = h.alloc(node{
		kind:     KindScope,
		bindings: map[string]Handle{},
		children: map[string]Handle{},
	})
	return h
}

// Root returns the hidden root scope. Its bindings and children are the GC
// roots; user code never sees this scope.
func (h *Heap) Root() Handle { return h.root }

func (h *Heap) alloc(n node) Handle {
	h.allocCount++
	if len(h.freeList) > 0 {
		idx := h.freeList[len(h.freeList)-1]
		h.freeList = h.freeList[:len(h.freeList)-1]
		h.nodes[idx] = n
		return idx
	}
	h.nodes = append(h.nodes, n)
	return Handle(len(h.nodes) - 1)
}

func (h *Heap) at(handle Handle) *node { return &h.nodes[handle] }

// Kind reports the variant stored at handle. Callers must check IsNull
// first; NullHandle does not name a heap slot.
func (h *Heap) Kind(handle Handle) Kind { return h.nodes[handle].kind }

func (h *Heap) NewEmpty() Handle { return h.alloc(node{kind: KindEmpty}) }

func (h *Heap) NewInteger(v int64) Handle { return h.alloc(node{kind: KindInteger, integer: v}) }

func (h *Heap) NewSymbol(s string) Handle { return h.alloc(node{kind: KindSymbol, symbol: s}) }

func (h *Heap) NewPair(car, cdr Handle) Handle {
	return h.alloc(node{kind: KindPair, car: car, cdr: cdr})
}

func (h *Heap) NewBuiltin(b *builtin) Handle { return h.alloc(node{kind: KindBuiltin, fn: b}) }

func (h *Heap) NewClosure(params []string, body []Handle, captured Handle, name string) Handle {
	return h.alloc(node{
		kind:     KindClosure,
		params:   params,
		body:     body,
		captured: captured,
		name:     name,
	})
}

func (h *Heap) NewScope(parent Handle) Handle {
	return h.alloc(node{
		kind:     KindScope,
		parent:   parent,
		bindings: map[string]Handle{},
		children: map[string]Handle{},
	})
}

// Integer, Symbol, Pair, Builtin, Closure accessors assume the caller has
// already confirmed the handle's Kind.

func (h *Heap) Integer(handle Handle) int64 { return h.nodes[handle].integer }
func (h *Heap) Symbol(handle Handle) string { return h.nodes[handle].symbol }
func (h *Heap) Car(handle Handle) Handle    { return h.nodes[handle].car }
func (h *Heap) Cdr(handle Handle) Handle    { return h.nodes[handle].cdr }
func (h *Heap) Builtin(handle Handle) *builtin { return h.nodes[handle].fn }

func (h *Heap) SetCar(handle, value Handle) { h.nodes[handle].car = value }
func (h *Heap) SetCdr(handle, value Handle) { h.nodes[handle].cdr = value }

func (h *Heap) ClosureParams(handle Handle) []string { return h.nodes[handle].params }
func (h *Heap) ClosureBody(handle Handle) []Handle    { return h.nodes[handle].body }
func (h *Heap) ClosureScope(handle Handle) Handle     { return h.nodes[handle].captured }
func (h *Heap) ClosureName(handle Handle) string      { return h.nodes[handle].name }

func (h *Heap) ScopeParent(handle Handle) Handle { return h.nodes[handle].parent }
func (h *Heap) ScopeBindings(handle Handle) map[string]Handle { return h.nodes[handle].bindings }
func (h *Heap) ScopeChildren(handle Handle) map[string]Handle { return h.nodes[handle].children }

// DeepCopy clones value-bearing nodes so that stored definitions are
// isolated from further mutation of the expression that produced them.
// Builtins are returned unchanged since they are stateless descriptors, and
// a closure's captured scope handle is kept (only its body is copied) since
// the scope is what gives the closure its identity.
func (h *Heap) DeepCopy(handle Handle) Handle {
	if IsNull(handle) {
		return NullHandle
	}
	n := h.nodes[handle]
	switch n.kind {
	case KindEmpty:
		return h.NewEmpty()
	case KindInteger:
		return h.NewInteger(n.integer)
	case KindSymbol:
		return h.NewSymbol(n.symbol)
	case KindPair:
		return h.NewPair(h.DeepCopy(n.car), h.DeepCopy(n.cdr))
	case KindBuiltin:
		return handle
	case KindClosure:
		params := append([]string(nil), n.params...)
		body := make([]Handle, len(n.body))
		for i, b := range n.body {
			body[i] = h.DeepCopy(b)
		}
		return h.NewClosure(params, body, n.captured, n.name)
	default:
		return handle
	}
}

// Collect runs one mark-and-sweep pass: clear mark bits, DFS from the root,
// then free every node left unmarked.
func (h *Heap) Collect() {
	for i := range h.nodes {
		h.nodes[i].marked = false
	}
	h.mark(h.root)
	for i := 1; i < len(h.nodes); i++ {
		idx := Handle(i)
		n := &h.nodes[idx]
		if n.free || n.marked {
			continue
		}
		h.release(idx)
	}
}

func (h *Heap) mark(handle Handle) {
	if IsNull(handle) {
		return
	}
	n := &h.nodes[handle]
	if n.free || n.marked {
		return
	}
	n.marked = true
	switch n.kind {
	case KindPair:
		h.mark(n.car)
		h.mark(n.cdr)
	case KindClosure:
		h.mark(n.captured)
		for _, b := range n.body {
			h.mark(b)
		}
	case KindScope:
		h.mark(n.parent)
		for _, v := range n.bindings {
			h.mark(v)
		}
		for _, c := range n.children {
			h.mark(c)
		}
	}
}

func (h *Heap) release(handle Handle) {
	h.nodes[handle] = node{free: true}
	h.freeList = append(h.freeList, handle)
	h.deallocCount++
}

// Stats reports cumulative allocation/deallocation counts and the number of
// currently live (reachable-or-unswept) nodes.
func (h *Heap) Stats() HeapStats {
	live := 0
	for i := 1; i < len(h.nodes); i++ {
		if !h.nodes[i].free {
			live++
		}
	}
	return HeapStats{AllocCount: h.allocCount, DeallocCount: h.deallocCount, Live: live}
}
