package expr

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/toni6/taskproc/infrastructure/logger"
)

// ParseError describes a malformed filter or sort expression. The failed
// expression is kept verbatim for error reporting.
type ParseError struct {
	Expr   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Expr, e.Reason)
}

// operator scan order is load-bearing: two-character operators must be tried
// before their single-character prefixes, or "priority>=3" would compile as
// GreaterThan with value "=3".
var operators = []FilterOp{
	OpGreaterThanEqual,
	OpLessThanEqual,
	OpNotEqual,
	OpEqual,
	OpGreaterThan,
	OpLessThan,
}

// ParseFilter compiles a filter expression of the form <field><op><value>.
// Field and value are trimmed of spaces and tabs; the value is otherwise
// taken verbatim, so "title=Fix login bug" keeps its interior spaces.
func ParseFilter(expression string) (FilterSpec, error) {
	if strings.TrimSpace(expression) == "" {
		return FilterSpec{}, &ParseError{Expr: expression, Reason: "empty expression"}
	}

	op, pos := findOperator(expression)
	if pos < 0 {
		return FilterSpec{}, &ParseError{Expr: expression, Reason: "no comparison operator found"}
	}

	field := Field(strings.Trim(expression[:pos], " \t"))
	value := strings.Trim(expression[pos+len(op):], " \t")

	numeric, known := filterFields[field]
	if !known {
		return FilterSpec{}, &ParseError{Expr: expression, Reason: fmt.Sprintf("unknown field %q", field)}
	}

	if numeric {
		if _, err := strconv.Atoi(value); err != nil {
			return FilterSpec{}, &ParseError{
				Expr:   expression,
				Reason: fmt.Sprintf("field %q requires an integer value, got %q", field, value),
			}
		}
	} else if op.Ordered() && !orderableFields[field] {
		return FilterSpec{}, &ParseError{
			Expr:   expression,
			Reason: fmt.Sprintf("operator %q is not supported for field %q", op, field),
		}
	}

	return FilterSpec{Field: field, Op: op, Value: value}, nil
}

// ParseSort compiles a sort expression of the form <field>[ <direction>].
// Direction defaults to ascending. An unrecognized direction token is
// accepted as ascending with a logged warning: a typo should not discard the
// sort the user asked for.
func ParseSort(expression string) (SortSpec, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return SortSpec{}, &ParseError{Expr: expression, Reason: "empty expression"}
	}

	fieldStr, dirStr, _ := strings.Cut(trimmed, " ")
	field := Field(fieldStr)
	if !sortFields[field] {
		return SortSpec{}, &ParseError{Expr: expression, Reason: fmt.Sprintf("unknown sort field %q", field)}
	}

	direction := Ascending
	switch strings.TrimSpace(dirStr) {
	case "", "asc", "ascending":
	case "desc", "descending":
		direction = Descending
	default:
		logger.Warn("unknown sort direction, defaulting to ascending",
			zap.String("expression", expression),
			zap.String("direction", dirStr),
		)
	}

	return SortSpec{Field: field, Direction: direction}, nil
}

// findOperator locates the first operator in scan-priority order and returns
// it with its byte offset, or -1 when no operator occurs anywhere.
func findOperator(expression string) (FilterOp, int) {
	for _, op := range operators {
		if pos := strings.Index(expression, string(op)); pos >= 0 {
			return op, pos
		}
	}
	return "", -1
}
