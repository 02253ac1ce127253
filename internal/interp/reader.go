package interp

// Read constructs exactly one datum from the head of tok's token stream,
// advancing past the tokens it consumes and leaving any remainder for the
// caller.
func Read(h *Heap, tok *Tokenizer) (Handle, error) {
	if tok.AtEnd() {
		return NullHandle, newSyntaxError("unexpected end of line")
	}
	cur := tok.Current()
	switch cur.Kind {
	case TokInteger:
		v := h.NewInteger(cur.Int)
		if err := tok.Advance(); err != nil {
			return NullHandle, err
		}
		return v, nil

	case TokSymbol:
		v := h.NewSymbol(cur.Sym)
		if err := tok.Advance(); err != nil {
			return NullHandle, err
		}
		return v, nil

	case TokQuote:
		if err := tok.Advance(); err != nil {
			return NullHandle, err
		}
		datum, err := Read(h, tok)
		if err != nil {
			return NullHandle, err
		}
		quote := h.NewSymbol("quote")
		return h.NewPair(quote, h.NewPair(datum, NullHandle)), nil

	case TokOpenParen:
		if err := tok.Advance(); err != nil {
			return NullHandle, err
		}
		return readList(h, tok)

	case TokDot:
		return NullHandle, newSyntaxError("unexpected dot")

	case TokCloseParen:
		return NullHandle, newSyntaxError("unexpected close bracket")

	default:
		return NullHandle, newSyntaxError("unexpected token")
	}
}

// readList is entered just after an OpenParen has been consumed. It reads
// data until a CloseParen (proper list) or a Dot followed by one trailing
// datum and a CloseParen (improper list).
func readList(h *Heap, tok *Tokenizer) (Handle, error) {
	if tok.AtEnd() {
		return NullHandle, newSyntaxError("unexpected end of line")
	}
	if tok.Current().Kind == TokCloseParen {
		if err := tok.Advance(); err != nil {
			return NullHandle, err
		}
		return NullHandle, nil
	}

	first, err := Read(h, tok)
	if err != nil {
		return NullHandle, err
	}

	if tok.AtEnd() {
		return NullHandle, newSyntaxError("unexpected end of line")
	}
	if tok.Current().Kind == TokDot {
		if err := tok.Advance(); err != nil {
			return NullHandle, err
		}
		second, err := Read(h, tok)
		if err != nil {
			return NullHandle, err
		}
		if tok.AtEnd() || tok.Current().Kind != TokCloseParen {
			return NullHandle, newSyntaxError("list did not end with close bracket")
		}
		if err := tok.Advance(); err != nil {
			return NullHandle, err
		}
		return h.NewPair(first, second), nil
	}

	rest, err := readList(h, tok)
	if err != nil {
		return NullHandle, err
	}
	return h.NewPair(first, rest), nil
}
