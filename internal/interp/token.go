package interp

import (
	"bufio"
	"math"
	"strings"
)

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokOpenParen TokenKind = iota
	TokCloseParen
	TokQuote
	TokDot
	TokInteger
	TokSymbol
)

// Token is the tagged union produced by the Tokenizer.
type Token struct {
	Kind TokenKind
	Int  int64
	Sym  string
}

const beginSymbolChars = "<=>*/#"
const insideSymbolExtraChars = "?!-"

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isCorrectBeginSymbol(b byte) bool {
	if b >= 'a' && b <= 'z' {
		return true
	}
	if b >= 'A' && b <= 'Z' {
		return true
	}
	return strings.IndexByte(beginSymbolChars, b) >= 0
}

func isCorrectInsideSymbol(b byte) bool {
	if isDigit(b) {
		return true
	}
	if strings.IndexByte(insideSymbolExtraChars, b) >= 0 {
		return true
	}
	return isCorrectBeginSymbol(b)
}

// Tokenizer exposes a single-token lookahead over a byte stream. Construction
// primes the first token; current() after atEnd() is undefined and callers
// (the Reader) must guard against it.
type Tokenizer struct {
	r    *bufio.Reader
	tok  Token
	done bool
}

// NewTokenizer primes the tokenizer with the first token of src.
func NewTokenizer(src string) (*Tokenizer, error) {
	t := &Tokenizer{r: bufio.NewReader(strings.NewReader(src))}
	if err := t.Advance(); err != nil {
		return nil, err
	}
	return t, nil
}

// Current returns the token at the head of the stream.
func (t *Tokenizer) Current() Token { return t.tok }

// AtEnd reports whether the stream is exhausted.
func (t *Tokenizer) AtEnd() bool { return t.done }

// Advance consumes the current token and primes the next one.
func (t *Tokenizer) Advance() error {
	return t.readToken()
}

func (t *Tokenizer) peek() (byte, bool) {
	b, err := t.r.Peek(1)
	if err != nil {
		return 0, false
	}
	return b[0], true
}

func (t *Tokenizer) get() (byte, bool) {
	b, err := t.r.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}

func (t *Tokenizer) skipWhitespace() {
	for {
		b, ok := t.peek()
		if !ok || !isWhitespace(b) {
			return
		}
		t.get()
	}
}

func (t *Tokenizer) readToken() error {
	t.skipWhitespace()
	b, ok := t.get()
	if !ok {
		t.done = true
		t.tok = Token{}
		return nil
	}

	switch {
	case b == '(':
		t.tok = Token{Kind: TokOpenParen}
		return nil
	case b == ')':
		t.tok = Token{Kind: TokCloseParen}
		return nil
	case b == '\'':
		t.tok = Token{Kind: TokQuote}
		return nil
	case b == '.':
		t.tok = Token{Kind: TokDot}
		return nil
	case isDigit(b):
		tok, err := t.readInteger(1, int64(b-'0'))
		if err != nil {
			return err
		}
		t.tok = tok
		return nil
	case b == '+' || b == '-':
		nb, ok := t.peek()
		if !ok || !isDigit(nb) {
			t.tok = Token{Kind: TokSymbol, Sym: string(b)}
			return nil
		}
		sign := int64(1)
		if b == '-' {
			sign = -1
		}
		tok, err := t.readInteger(sign, 0)
		if err != nil {
			return err
		}
		t.tok = tok
		return nil
	case isCorrectBeginSymbol(b):
		t.tok = t.readSymbol(b)
		return nil
	default:
		return newSyntaxError("unexpected character '%c'", b)
	}
}

// readInteger accumulates the remaining digits of an integer literal,
// combining them with the digit already consumed by the caller (or zero,
// when the caller only consumed a sign). Accumulation is signed throughout
// so that math.MinInt64 is representable without ever forming the
// unrepresentable positive magnitude.
func (t *Tokenizer) readInteger(sign, seed int64) (Token, error) {
	value := seed
	for {
		b, ok := t.peek()
		if !ok || !isDigit(b) {
			break
		}
		if value > math.MaxInt64/10 || value < math.MinInt64/10 {
			return Token{}, newSyntaxError("integer literal out of range")
		}
		t.get()
		digit := int64(b - '0')
		value *= 10
		if sign >= 0 {
			if value > math.MaxInt64-digit {
				return Token{}, newSyntaxError("integer literal out of range")
			}
			value += digit
		} else {
			if value < math.MinInt64+digit {
				return Token{}, newSyntaxError("integer literal out of range")
			}
			value -= digit
		}
	}
	return Token{Kind: TokInteger, Int: value}, nil
}

func (t *Tokenizer) readSymbol(first byte) Token {
	var sb strings.Builder
	sb.WriteByte(first)
	for {
		b, ok := t.peek()
		if !ok || !isCorrectInsideSymbol(b) {
			break
		}
		t.get()
		sb.WriteByte(b)
	}
	return Token{Kind: TokSymbol, Sym: sb.String()}
}
