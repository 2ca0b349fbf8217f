package sheet

import (
	"errors"
	"fmt"

	"reckon/graph"
	"reckon/operator"
	"reckon/parser"
)

// FailureReason is the typed outcome of a rejected update, distinct at the
// API boundary so front-ends can key messages off it.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	ReasonParseError
	ReasonBadName
	ReasonEvaluationError
	ReasonZeroDivision
	ReasonCircularDependencies
	ReasonUnexpected
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "None"
	case ReasonParseError:
		return "ParseError"
	case ReasonBadName:
		return "BadName"
	case ReasonEvaluationError:
		return "EvaluationError"
	case ReasonZeroDivision:
		return "ZeroDivision"
	case ReasonCircularDependencies:
		return "CircularDependencies"
	}
	return "UnexpectedError"
}

// BadNameError reports a cell or range name that is malformed, out of the
// sheet bounds, or an ill-shaped range.
type BadNameError struct {
	Name string
}

func (e *BadNameError) Error() string {
	return fmt.Sprintf("bad cell or range name %q", e.Name)
}

// EvaluationError reports a structural problem at evaluation time: a
// missing referenced cell, a non-numeric operand, or deletion of a cell
// with live dependents.
type EvaluationError struct {
	Message string
}

func (e *EvaluationError) Error() string {
	return "evaluation error: " + e.Message
}

func evalErrf(format string, args ...any) *EvaluationError {
	return &EvaluationError{Message: fmt.Sprintf(format, args...)}
}

// Classify maps an error returned by TryUpdate onto the failure taxonomy.
func Classify(err error) FailureReason {
	if err == nil {
		return ReasonNone
	}
	var parseErr *parser.ParseError
	var badName *BadNameError
	var evalErr *EvaluationError
	switch {
	case errors.As(err, &parseErr):
		return ReasonParseError
	case errors.As(err, &badName):
		return ReasonBadName
	case errors.Is(err, operator.ErrDivisionByZero):
		return ReasonZeroDivision
	case errors.Is(err, graph.ErrCycle):
		return ReasonCircularDependencies
	case errors.As(err, &evalErr):
		return ReasonEvaluationError
	}
	return ReasonUnexpected
}
