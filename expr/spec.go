// Package expr compiles textual filter and sort expressions into typed,
// immutable specifications consumed by the view pipeline.
package expr

// FilterOp is a comparison operator in a filter expression.
type FilterOp string

const (
	OpEqual            FilterOp = "="
	OpNotEqual         FilterOp = "!="
	OpGreaterThan      FilterOp = ">"
	OpGreaterThanEqual FilterOp = ">="
	OpLessThan         FilterOp = "<"
	OpLessThanEqual    FilterOp = "<="
)

// Field identifies a task attribute addressable in expressions.
type Field string

const (
	FieldID          Field = "id"
	FieldTitle       Field = "title"
	FieldStatus      Field = "status"
	FieldPriority    Field = "priority"
	FieldCreatedDate Field = "created_date"
	FieldDueDate     Field = "due_date"
	FieldAssignee    Field = "assignee"
	FieldDescription Field = "description"
)

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// FilterSpec is the compiled form of a filter expression such as
// "priority>=3" or "status=todo". The compiler guarantees the field/operator
// pairing is one the pipeline can evaluate.
type FilterSpec struct {
	Field Field
	Op    FilterOp
	Value string
}

// SortSpec is the compiled form of a sort expression such as
// "priority desc" or "due_date".
type SortSpec struct {
	Field     Field
	Direction Direction
}

// filterFields maps recognized filter field names to whether the field
// compares numerically. Numeric fields accept all six operators and require
// an integer value. Other fields compare as strings with = and != only,
// except due_date: ISO 8601 dates order correctly as plain strings, so
// due_date also accepts the ordering operators.
var filterFields = map[Field]bool{
	FieldID:          true,
	FieldTitle:       false,
	FieldStatus:      false,
	FieldPriority:    true,
	FieldCreatedDate: false,
	FieldDueDate:     false,
	FieldAssignee:    false,
	FieldDescription: false,
}

// orderableFields are the non-numeric fields that still support >, >=, <, <=.
var orderableFields = map[Field]bool{
	FieldDueDate: true,
}

// sortFields are the fields a view can be ordered by.
var sortFields = map[Field]bool{
	FieldID:          true,
	FieldTitle:       true,
	FieldStatus:      true,
	FieldPriority:    true,
	FieldCreatedDate: true,
	FieldDueDate:     true,
}

// Numeric reports whether the spec's field compares as an integer.
func (s FilterSpec) Numeric() bool {
	return filterFields[s.Field]
}

// Ordered reports whether the operator is one of the four ordering
// comparisons (as opposed to = / !=).
func (op FilterOp) Ordered() bool {
	switch op {
	case OpGreaterThan, OpGreaterThanEqual, OpLessThan, OpLessThanEqual:
		return true
	}
	return false
}
