package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/battlemap/pkg/observability"
)

// logHooks reports gestures, commits and API requests as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnDragStart(gesture string) {
	h.logger.Debug("drag start", "gesture", gesture)
}

func (h logHooks) OnDragEnd(gesture string, d time.Duration, cancelled bool) {
	h.logger.Debug("drag end", "gesture", gesture, "took", d.Round(time.Millisecond), "cancelled", cancelled)
}

func (h logHooks) OnCommit(_ context.Context, kind, sceneID, key string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("commit", "kind", kind, "scene", sceneID, "token", key, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("commit", "kind", kind, "scene", sceneID, "token", key, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("request", "method", method, "route", route, "status", status, "took", d.Round(time.Millisecond))
}

// registerLogHooks routes observability events to logger when it logs at
// debug level. Otherwise the no-op hooks stay in place.
func registerLogHooks(logger *log.Logger) bool {
	if logger.GetLevel() > log.DebugLevel {
		return false
	}
	h := logHooks{logger: logger}
	observability.SetGestureHooks(h)
	observability.SetCommitHooks(h)
	observability.SetAPIHooks(h)
	return true
}
