package ast

import "fmt"

// TokenType distinguishes the two token shapes the lexer emits.
type TokenType int

const (
	// TokenOpen is an opening tag, a self-closing tag, or a synthetic
	// self-closing "text" tag carrying literal text or an interpolation.
	TokenOpen TokenType = iota
	// TokenClose is a closing tag.
	TokenClose
)

// Attr is one attribute as written in the template, in document order.
// Value is either a double-quoted Go string literal (marking literal text)
// or scoped expression source.
type Attr struct {
	Key   string
	Value string
}

type Token struct {
	Type        TokenType
	Name        string
	Attrs       []Attr
	SelfClosing bool
	// Pos is the byte offset of the token in the trimmed template text.
	Pos int
}

// Node is one element of the parsed template tree.
//
// Attrs carries the last-wins view of the token's attribute list: values
// are either double-quoted literals or scoped expression source, exactly
// as lexed.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
}

// ParseError records one failed grammar alternate. Cause chains the best
// sub-failure that led here, ending at the deepest point the parser
// reached; the chain is diagnostic only.
type ParseError struct {
	Msg   string
	Start int
	End   int
	Cause *ParseError
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("tokens %d..%d: %s", e.Start, e.End, e.Msg)
	}
	return fmt.Sprintf("tokens %d..%d: %s: %v", e.Start, e.End, e.Msg, e.Cause)
}

func (e *ParseError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Deepest walks the cause chain and returns the innermost failure.
func (e *ParseError) Deepest() *ParseError {
	for e.Cause != nil {
		e = e.Cause
	}
	return e
}
