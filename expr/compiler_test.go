package expr

import (
	"errors"
	"testing"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected FilterSpec
	}{
		{
			name:     "Equal",
			input:    "status=todo",
			expected: FilterSpec{Field: FieldStatus, Op: OpEqual, Value: "todo"},
		},
		{
			name:     "NotEqual",
			input:    "status!=done",
			expected: FilterSpec{Field: FieldStatus, Op: OpNotEqual, Value: "done"},
		},
		{
			name:     "GreaterThanOrEqual wins over GreaterThan",
			input:    "priority>=3",
			expected: FilterSpec{Field: FieldPriority, Op: OpGreaterThanEqual, Value: "3"},
		},
		{
			name:     "LessThanOrEqual",
			input:    "priority<=2",
			expected: FilterSpec{Field: FieldPriority, Op: OpLessThanEqual, Value: "2"},
		},
		{
			name:     "GreaterThan",
			input:    "id>10",
			expected: FilterSpec{Field: FieldID, Op: OpGreaterThan, Value: "10"},
		},
		{
			name:     "LessThan on date",
			input:    "due_date<2024-06-01",
			expected: FilterSpec{Field: FieldDueDate, Op: OpLessThan, Value: "2024-06-01"},
		},
		{
			name:     "Created date equality",
			input:    "created_date=2024-01-01",
			expected: FilterSpec{Field: FieldCreatedDate, Op: OpEqual, Value: "2024-01-01"},
		},
		{
			name:     "Value keeps interior spaces",
			input:    "title=Fix login bug",
			expected: FilterSpec{Field: FieldTitle, Op: OpEqual, Value: "Fix login bug"},
		},
		{
			name:     "Field and value trimmed",
			input:    "  assignee = alice\t",
			expected: FilterSpec{Field: FieldAssignee, Op: OpEqual, Value: "alice"},
		},
		{
			name:     "Description equality",
			input:    "description=needs review",
			expected: FilterSpec{Field: FieldDescription, Op: OpEqual, Value: "needs review"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseFilter(tt.input)
			if err != nil {
				t.Fatalf("ParseFilter(%q) returned error: %v", tt.input, err)
			}
			if spec != tt.expected {
				t.Errorf("ParseFilter(%q) = %+v, expected %+v", tt.input, spec, tt.expected)
			}
		})
	}
}

func TestParseFilterErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Empty input", input: ""},
		{name: "Only whitespace", input: "   "},
		{name: "No operator", input: "status todo"},
		{name: "Unknown field", input: "color=red"},
		{name: "Non-numeric priority value", input: "priority>high"},
		{name: "Non-numeric id value", input: "id=abc"},
		{name: "Ordering operator on title", input: "title>b"},
		{name: "Ordering operator on status", input: "status<=todo"},
		{name: "Ordering operator on assignee", input: "assignee>alice"},
		{name: "Ordering operator on created_date", input: "created_date>2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.input)
			if err == nil {
				t.Fatalf("ParseFilter(%q) expected error, got nil", tt.input)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("ParseFilter(%q) error = %T, expected *ParseError", tt.input, err)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SortSpec
	}{
		{
			name:     "Field only defaults to ascending",
			input:    "due_date",
			expected: SortSpec{Field: FieldDueDate, Direction: Ascending},
		},
		{
			name:     "Explicit asc",
			input:    "created_date asc",
			expected: SortSpec{Field: FieldCreatedDate, Direction: Ascending},
		},
		{
			name:     "Explicit ascending",
			input:    "id ascending",
			expected: SortSpec{Field: FieldID, Direction: Ascending},
		},
		{
			name:     "Desc",
			input:    "priority desc",
			expected: SortSpec{Field: FieldPriority, Direction: Descending},
		},
		{
			name:     "Descending",
			input:    "title descending",
			expected: SortSpec{Field: FieldTitle, Direction: Descending},
		},
		{
			name:     "Unknown direction token accepted as ascending",
			input:    "status sideways",
			expected: SortSpec{Field: FieldStatus, Direction: Ascending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSort(tt.input)
			if err != nil {
				t.Fatalf("ParseSort(%q) returned error: %v", tt.input, err)
			}
			if spec != tt.expected {
				t.Errorf("ParseSort(%q) = %+v, expected %+v", tt.input, spec, tt.expected)
			}
		})
	}
}

func TestParseSortErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Empty input", input: ""},
		{name: "Unknown field", input: "color desc"},
		{name: "Assignee is not sortable", input: "assignee"},
		{name: "Description is not sortable", input: "description desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSort(tt.input); err == nil {
				t.Fatalf("ParseSort(%q) expected error, got nil", tt.input)
			}
		})
	}
}

func TestFindOperatorPriority(t *testing.T) {
	// The scan must pick >= at its own position, never = inside it.
	op, pos := findOperator("priority>=3")
	if op != OpGreaterThanEqual || pos != 8 {
		t.Fatalf("findOperator(\"priority>=3\") = (%q, %d), expected (\">=\", 8)", op, pos)
	}

	op, pos = findOperator("no operator here")
	if pos != -1 {
		t.Fatalf("findOperator without operator = (%q, %d), expected pos -1", op, pos)
	}
}
