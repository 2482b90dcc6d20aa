package jtl

import (
	"github.com/itsatony/go-jtl/internal"
	"go.uber.org/zap"
)

// ExpressionEvaluator evaluates the boolean expressions of {{#if}} blocks.
//
// Supported forms, checked in this order on the trimmed text:
//
//	a && b         every part truthy
//	a || b         any part truthy
//	a == b, !=, >=, <=, >, <
//	a ?? b         a when a is not null, else b
//	a              truthiness of a single operand
//
// "&&" is tried before "||", so "a || b && c" evaluates as "(a || b) && c".
type ExpressionEvaluator struct {
	logger *zap.Logger
}

// NewExpressionEvaluator creates an evaluator. A nil logger disables logging.
func NewExpressionEvaluator(logger *zap.Logger) *ExpressionEvaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpressionEvaluator{logger: logger}
}

// Evaluate returns the value of expr. Malformed expressions evaluate to false.
func (e *ExpressionEvaluator) Evaluate(expr string, vars Lookuper) bool {
	result, err := e.EvaluateResult(expr, vars)
	if err != nil {
		e.logger.Debug(LogMsgExprMalformed,
			zap.String(LogFieldExpression, expr),
			zap.Error(err))
		return false
	}
	return result
}

// EvaluateResult is Evaluate with the failure reported instead of folded into false.
func (e *ExpressionEvaluator) EvaluateResult(expr string, vars Lookuper) (bool, error) {
	var lookup internal.LookupFunc
	if vars != nil {
		lookup = vars.Lookup
	}
	return internal.EvaluateCondition(expr, lookup)
}
