package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupFunc resolves a dotted variable path to a value.
type LookupFunc func(path string) (any, bool)

// comparisonOps are tried in this order; the first one contained in the expression wins.
var comparisonOps = []string{OpEq, OpNeq, OpGte, OpLte, OpGt, OpLt}

// EvaluateCondition evaluates a boolean template expression.
//
// The expression is checked, in order, for "&&", "||", a comparison operator and "??".
// The first operator found splits the expression; "&&" is tried before "||", so
// "a || b && c" means "(a || b) && c". Without any operator the expression is resolved
// as a single operand and its truthiness is returned. Both sides of "??" are single
// operands, so "a ?? b ?? c" falls back to the path "b ?? c", which never resolves.
func EvaluateCondition(expr string, lookup LookupFunc) (result bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = false
			err = NewExprError(ErrMsgExprPanic, fmt.Sprint(r), expr)
		}
	}()
	return evaluate(strings.TrimSpace(expr), lookup)
}

func evaluate(expr string, lookup LookupFunc) (bool, error) {
	if strings.Contains(expr, OpAnd) {
		for _, part := range strings.Split(expr, OpAnd) {
			ok, err := evaluate(strings.TrimSpace(part), lookup)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}

	if strings.Contains(expr, OpOr) {
		for _, part := range strings.Split(expr, OpOr) {
			ok, err := evaluate(strings.TrimSpace(part), lookup)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}

	for _, op := range comparisonOps {
		if strings.Contains(expr, op) {
			return compare(expr, op, lookup)
		}
	}

	if idx := strings.Index(expr, OpCoalesce); idx >= 0 {
		left := ResolveOperand(strings.TrimSpace(expr[:idx]), lookup)
		if left != nil {
			return IsTruthy(left), nil
		}
		return IsTruthy(ResolveOperand(strings.TrimSpace(expr[idx+len(OpCoalesce):]), lookup)), nil
	}

	return IsTruthy(ResolveOperand(expr, lookup)), nil
}

func compare(expr, op string, lookup LookupFunc) (bool, error) {
	parts := strings.Split(expr, op)
	if len(parts) != 2 {
		return false, NewExprError(ErrMsgExprOperandCount, op, expr)
	}
	leftText := strings.TrimSpace(parts[0])
	rightText := strings.TrimSpace(parts[1])
	if leftText == StringValueEmpty || rightText == StringValueEmpty {
		return false, NewExprError(ErrMsgExprEmptyOperand, op, expr)
	}

	left := ResolveOperand(leftText, lookup)
	right := ResolveOperand(rightText, lookup)

	switch op {
	case OpEq:
		return CompareEqual(left, right), nil
	case OpNeq:
		return !CompareEqual(left, right), nil
	case OpGte:
		return CoerceNumber(left) >= CoerceNumber(right), nil
	case OpLte:
		return CoerceNumber(left) <= CoerceNumber(right), nil
	case OpGt:
		return CoerceNumber(left) > CoerceNumber(right), nil
	default:
		return CoerceNumber(left) < CoerceNumber(right), nil
	}
}

// ResolveOperand turns operand text into a value.
// Quoted text is a string literal; then integer, float, true/false/null are tried;
// anything else is a variable path. A variable resolving to "" is treated as null.
func ResolveOperand(text string, lookup LookupFunc) any {
	if isQuoted(text) {
		return text[1 : len(text)-1]
	}

	if looksNumeric(text) {
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(text, FloatBitSize64); err == nil {
			return f
		}
	}

	switch text {
	case LiteralTrue:
		return true
	case LiteralFalse:
		return false
	case LiteralNull:
		return nil
	}

	if lookup == nil {
		return nil
	}
	val, ok := lookup(text)
	if !ok {
		return nil
	}
	if s, isStr := val.(string); isStr && s == StringValueEmpty {
		return nil
	}
	return val
}

func isQuoted(text string) bool {
	if len(text) < 2 {
		return false
	}
	first, last := text[0], text[len(text)-1]
	return first == last && (first == CharDoubleQuote || first == CharSingleQuote)
}

// looksNumeric keeps words such as "inf" or "nan" from being parsed as floats.
func looksNumeric(text string) bool {
	if text == StringValueEmpty {
		return false
	}
	ch := text[0]
	if ch == '-' || ch == '+' || ch == '.' {
		return len(text) > 1 && (isDigit(text[1]) || text[1] == '.')
	}
	return isDigit(ch)
}

// ExprError represents a malformed expression.
type ExprError struct {
	Message string
	Detail  string
	Expr    string
}

// NewExprError creates a new expression error.
func NewExprError(message, detail, expr string) *ExprError {
	return &ExprError{
		Message: message,
		Detail:  detail,
		Expr:    expr,
	}
}

// Error implements the error interface.
func (e *ExprError) Error() string {
	msg := e.Message
	if e.Detail != StringValueEmpty {
		msg = fmt.Sprintf(ErrFmtExprWithDetail, msg, e.Detail)
	}
	return fmt.Sprintf(ErrFmtExprWithExpr, msg, e.Expr)
}
