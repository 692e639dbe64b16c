// Package history records view-shaping operations for one data source and
// persists them so the view can be reconstructed across process restarts.
package history

// OpType identifies a recordable view operation. The string forms are the
// stable on-disk representation.
type OpType string

const (
	OpLoad         OpType = "load"
	OpFilter       OpType = "filter"
	OpSort         OpType = "sort"
	OpResetFilters OpType = "reset-filters"
	OpFindByTag    OpType = "find-by-tag"
)

// Action is a single recorded view operation. Payload holds the verbatim
// filter/sort expression, the raw tag for find-by-tag, or is empty.
type Action struct {
	Type    OpType `json:"type"`
	Payload string `json:"payload"`
}

// KnownOp reports whether t is a recognized operation type. Unrecognized
// types read from a durable record are skipped, not fatal.
func KnownOp(t OpType) bool {
	switch t {
	case OpLoad, OpFilter, OpSort, OpResetFilters, OpFindByTag:
		return true
	}
	return false
}
