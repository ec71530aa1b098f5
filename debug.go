package island

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// debugStats holds per-frame timing and triangle metrics.
// Only populated when the session is in debug mode.
type debugStats struct {
	traverseTime  time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	triangleCount int
	culledCount   int
	drawCallCount int
}

// debugLog writes timing and draw-call stats at debug level.
func (r *Renderer) debugLog(stats debugStats) {
	if !globalDebug {
		return
	}
	total := stats.traverseTime + stats.sortTime + stats.submitTime
	r.log.Debug("frame",
		zap.Duration("traverse", stats.traverseTime),
		zap.Duration("sort", stats.sortTime),
		zap.Duration("submit", stats.submitTime),
		zap.Duration("total", total),
		zap.Int("triangles", stats.triangleCount),
		zap.Int("culled", stats.culledCount),
		zap.Int("draw_calls", stats.drawCallCount),
	)
}

// globalDebug mirrors the most recently set Session debug flag so that node
// operations (which lack a Session pointer) can check it cheaply.
var globalDebug bool

// debugLogger receives node-level warnings while debug mode is on.
var debugLogger = zap.NewNop()

// setDebug switches debug checks on or off and routes their warnings to log.
func setDebug(enabled bool, log *zap.Logger) {
	globalDebug = enabled
	if log == nil {
		log = zap.NewNop()
	}
	debugLogger = log
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("tree depth exceeds threshold",
			zap.String("node", n.Name), zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth))
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLogger.Warn("child count exceeds threshold",
			zap.String("node", n.Name), zap.Int("children", len(n.children)), zap.Int("threshold", debugMaxChildCount))
	}
}

// debugCheckOrientation warns when direction and up would give a degenerate
// look-at: either is zero or they are parallel.
func debugCheckOrientation(what string, dir, up mgl64.Vec3) {
	if dir.Cross(up).Len() < 1e-9 {
		debugLogger.Warn("degenerate orientation", zap.String("what", what),
			zap.Float64("direction_len", dir.Len()), zap.Float64("up_len", up.Len()))
	}
}
