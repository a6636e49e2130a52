package ripple

import "time"

// debugStatsInterval is how many ticks are aggregated per stats record.
const debugStatsInterval = 120

// frameStats holds tick timing and draw metrics. Only populated when the
// instance was mounted with Config.Debug.
type frameStats struct {
	ticks      int
	tickTime   time.Duration
	maxTick    time.Duration
	drawCalls  uint64
	blankCalls uint64
}

func (s *frameStats) record(d time.Duration) {
	s.ticks++
	s.tickTime += d
	s.maxTick = max(s.maxTick, d)
}

// debugLog writes the aggregated stats at debug level and resets the window.
func (s *frameStats) debugLog(name string, rc *RenderContext) {
	if s.ticks == 0 {
		return
	}
	draws, blank := rc.DrawCalls(), rc.BlankFrames()
	Logger().Debug("ripple: frame stats",
		"instance", name,
		"ticks", s.ticks,
		"avg", s.tickTime/time.Duration(s.ticks),
		"max", s.maxTick,
		"draws", draws-s.drawCalls,
		"blank", blank-s.blankCalls,
		"texture", rc.TextureState(),
		"mode", rc.Program().Mode())
	*s = frameStats{drawCalls: draws, blankCalls: blank}
}
