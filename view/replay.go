package view

import (
	"go.uber.org/zap"

	"github.com/toni6/taskproc/expr"
	"github.com/toni6/taskproc/history"
)

// Replay reconstructs the view from a recorded action history: it resets,
// then re-applies every entry in order. Payloads of filter and sort entries
// are re-compiled; an entry that no longer parses is logged and skipped so
// one bad entry never discards the rest of the history. The caller is
// responsible for loading the store beforehand — load entries are no-ops
// here.
func (p *Pipeline) Replay(actions []history.Action) {
	p.Reset()

	for _, a := range actions {
		switch a.Type {
		case history.OpFilter:
			spec, err := expr.ParseFilter(a.Payload)
			if err != nil {
				p.log.Warn("replay: skipping unparseable filter",
					zap.String("payload", a.Payload), zap.Error(err))
				continue
			}
			p.ApplyFilter(spec)
			p.log.Debug("replay: applied filter", zap.String("payload", a.Payload))

		case history.OpSort:
			spec, err := expr.ParseSort(a.Payload)
			if err != nil {
				p.log.Warn("replay: skipping unparseable sort",
					zap.String("payload", a.Payload), zap.Error(err))
				continue
			}
			p.ApplySort(spec)
			p.log.Debug("replay: applied sort", zap.String("payload", a.Payload))

		case history.OpFindByTag:
			// Payload is the raw tag, not an expression.
			p.FilterByTag(a.Payload)
			p.log.Debug("replay: applied tag filter", zap.String("tag", a.Payload))

		case history.OpResetFilters:
			p.Reset()
			p.log.Debug("replay: reset filters")

		case history.OpLoad:
			// The initial load happens before replay starts.

		default:
			p.log.Warn("replay: skipping unknown action type", zap.String("type", string(a.Type)))
		}
	}
}
