package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Eval evaluates scoped expression source against ctx. The language is
// deliberately small: literals, `$.name` context reads, member access,
// `len(…)`, unary `!` and `-`, the usual binary operators, `?:`, and
// parentheses. Errors never panic; callers treat them as advisory and
// degrade the value to nil.
func Eval(src string, ctx Context) (any, error) {
	e := &evaluator{src: src, ctx: ctx}
	e.next()
	v, err := e.ternary()
	if err != nil {
		return nil, err
	}
	if e.tok.kind != tkEOF {
		return nil, fmt.Errorf("unexpected %q in expression %q", e.tok.text, src)
	}
	return v, nil
}

type tokKind int

const (
	tkEOF tokKind = iota
	tkNum
	tkStr
	tkIdent
	tkDollar
	tkPunct // single- or double-char operator / delimiter
)

type tok struct {
	kind tokKind
	text string
	num  float64
}

type evaluator struct {
	src string
	pos int
	tok tok
	ctx Context
}

// builtin marks a global function value produced by a bare Globals
// identifier; it only becomes useful when called.
type builtin string

func (e *evaluator) next() {
	s := e.src
	for e.pos < len(s) && (s[e.pos] == ' ' || s[e.pos] == '\t' || s[e.pos] == '\n' || s[e.pos] == '\r') {
		e.pos++
	}
	if e.pos >= len(s) {
		e.tok = tok{kind: tkEOF}
		return
	}
	c := s[e.pos]
	switch {
	case c >= '0' && c <= '9':
		j := e.pos + 1
		for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
			j++
		}
		n, err := strconv.ParseFloat(s[e.pos:j], 64)
		if err != nil {
			e.tok = tok{kind: tkPunct, text: s[e.pos:j]}
		} else {
			e.tok = tok{kind: tkNum, num: n, text: s[e.pos:j]}
		}
		e.pos = j
	case c == '\'' || c == '"':
		j := e.pos + 1
		var b strings.Builder
		for j < len(s) && s[j] != c {
			if s[j] == '\\' && j+1 < len(s) {
				j++
			}
			b.WriteByte(s[j])
			j++
		}
		if j < len(s) {
			j++
		}
		e.tok = tok{kind: tkStr, text: b.String()}
		e.pos = j
	case c == '$':
		e.tok = tok{kind: tkDollar, text: "$"}
		e.pos++
	case isIdentStart(c):
		j := e.pos + 1
		for j < len(s) && isIdentPart(s[j]) {
			j++
		}
		e.tok = tok{kind: tkIdent, text: s[e.pos:j]}
		e.pos = j
	default:
		two := ""
		if e.pos+1 < len(s) {
			two = s[e.pos : e.pos+2]
		}
		switch two {
		case "==", "!=", "<=", ">=", "&&", "||":
			e.tok = tok{kind: tkPunct, text: two}
			e.pos += 2
		default:
			e.tok = tok{kind: tkPunct, text: string(c)}
			e.pos++
		}
	}
}

func (e *evaluator) ternary() (any, error) {
	cond, err := e.binary(0)
	if err != nil {
		return nil, err
	}
	if e.tok.kind != tkPunct || e.tok.text != "?" {
		return cond, nil
	}
	e.next()
	thenV, err := e.ternary()
	if err != nil {
		return nil, err
	}
	if e.tok.kind != tkPunct || e.tok.text != ":" {
		return nil, fmt.Errorf("expected ':' in conditional, got %q", e.tok.text)
	}
	e.next()
	elseV, err := e.ternary()
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return thenV, nil
	}
	return elseV, nil
}

var binaryPrec = map[string]int{
	"||": 1, "&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func (e *evaluator) binary(min int) (any, error) {
	left, err := e.unary()
	if err != nil {
		return nil, err
	}
	for e.tok.kind == tkPunct {
		op := e.tok.text
		prec, ok := binaryPrec[op]
		if !ok || prec < min {
			break
		}
		e.next()
		right, err := e.binary(prec + 1)
		if err != nil {
			return nil, err
		}
		left, err = apply(op, left, right)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (e *evaluator) unary() (any, error) {
	if e.tok.kind == tkPunct {
		switch e.tok.text {
		case "!":
			e.next()
			v, err := e.unary()
			if err != nil {
				return nil, err
			}
			return !truthy(v), nil
		case "-":
			e.next()
			v, err := e.unary()
			if err != nil {
				return nil, err
			}
			n, ok := toNumber(v)
			if !ok {
				return nil, fmt.Errorf("cannot negate %T", v)
			}
			return -n, nil
		}
	}
	return e.postfix()
}

func (e *evaluator) postfix() (any, error) {
	v, err := e.primary()
	if err != nil {
		return nil, err
	}
	for e.tok.kind == tkPunct {
		switch e.tok.text {
		case ".":
			e.next()
			if e.tok.kind != tkIdent {
				return nil, fmt.Errorf("expected property name after '.', got %q", e.tok.text)
			}
			v = member(v, e.tok.text)
			e.next()
		case "(":
			fn, ok := v.(builtin)
			if !ok {
				return nil, fmt.Errorf("value of type %T is not callable", v)
			}
			e.next()
			var args []any
			for e.tok.kind != tkEOF && !(e.tok.kind == tkPunct && e.tok.text == ")") {
				a, err := e.ternary()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if e.tok.kind == tkPunct && e.tok.text == "," {
					e.next()
				}
			}
			if e.tok.kind == tkEOF {
				return nil, fmt.Errorf("unterminated call to %s", string(fn))
			}
			e.next()
			v, err = call(fn, args)
			if err != nil {
				return nil, err
			}
		default:
			return v, nil
		}
	}
	return v, nil
}

func (e *evaluator) primary() (any, error) {
	switch e.tok.kind {
	case tkNum:
		n := e.tok.num
		e.next()
		return n, nil
	case tkStr:
		s := e.tok.text
		e.next()
		return s, nil
	case tkDollar:
		e.next()
		return map[string]any(e.ctx), nil
	case tkIdent:
		name := e.tok.text
		e.next()
		switch name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
		if Globals[name] {
			return builtin(name), nil
		}
		return nil, fmt.Errorf("unknown identifier %q", name)
	case tkPunct:
		if e.tok.text == "(" {
			e.next()
			v, err := e.ternary()
			if err != nil {
				return nil, err
			}
			if e.tok.kind != tkPunct || e.tok.text != ")" {
				return nil, fmt.Errorf("expected ')', got %q", e.tok.text)
			}
			e.next()
			return v, nil
		}
	}
	return nil, fmt.Errorf("unexpected %q in expression", e.tok.text)
}

func member(v any, name string) any {
	switch m := v.(type) {
	case map[string]any:
		return m[name]
	case Context:
		return m[name]
	default:
		return nil
	}
}

func call(fn builtin, args []any) (any, error) {
	switch fn {
	case "len":
		if len(args) != 1 {
			return nil, fmt.Errorf("len takes one argument, got %d", len(args))
		}
		switch t := args[0].(type) {
		case string:
			return float64(len(t)), nil
		case []any:
			return float64(len(t)), nil
		case map[string]any:
			return float64(len(t)), nil
		case nil:
			return float64(0), nil
		default:
			return nil, fmt.Errorf("len of %T", t)
		}
	default:
		return nil, fmt.Errorf("unknown builtin %q", string(fn))
	}
}

func apply(op string, l, r any) (any, error) {
	switch op {
	case "||":
		if truthy(l) {
			return l, nil
		}
		return r, nil
	case "&&":
		if !truthy(l) {
			return l, nil
		}
		return r, nil
	case "==":
		return Equal(l, r), nil
	case "!=":
		return !Equal(l, r), nil
	}

	if op == "+" {
		if ls, ok := l.(string); ok {
			return ls + Format(r), nil
		}
		if rs, ok := r.(string); ok {
			return Format(l) + rs, nil
		}
	}

	switch op {
	case "<", "<=", ">", ">=":
		if ls, ok := l.(string); ok {
			if rs, ok := r.(string); ok {
				return compareStrings(op, ls, rs), nil
			}
		}
	}

	ln, lok := toNumber(l)
	rn, rok := toNumber(r)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %q needs numbers, got %T and %T", op, l, r)
	}
	switch op {
	case "+":
		return ln + rn, nil
	case "-":
		return ln - rn, nil
	case "*":
		return ln * rn, nil
	case "/":
		if rn == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return ln / rn, nil
	case "%":
		if rn == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return float64(int64(ln) % int64(rn)), nil
	case "<":
		return ln < rn, nil
	case "<=":
		return ln <= rn, nil
	case ">":
		return ln > rn, nil
	case ">=":
		return ln >= rn, nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func compareStrings(op, l, r string) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	default:
		return l >= r
	}
}
