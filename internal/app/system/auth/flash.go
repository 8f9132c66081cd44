package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Flash levels.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const flashKey = "_flash"

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Level string
	Text  string
}

// AddFlash queues a message for the next page render and saves the
// session. Failures are logged; the redirect proceeds either way.
func (sm *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, level, text string) {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.logSessionErr(err)
	}
	sess.AddFlash(level+"|"+text, flashKey)
	if err := sess.Save(r, w); err != nil {
		sm.log.Error("save flash failed", zap.Error(err))
	}
}

// PopFlashes returns and clears the queued messages. The session is only
// written when there was something to clear.
func (sm *SessionManager) PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, err := sm.GetSession(r)
	if err != nil {
		return nil
	}
	raw := sess.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		sm.log.Error("clear flashes failed", zap.Error(err))
	}

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out = append(out, parseFlash(s))
	}
	return out
}

func parseFlash(s string) Flash {
	level, text, ok := strings.Cut(s, "|")
	if !ok {
		return Flash{Level: FlashInfo, Text: s}
	}
	return Flash{Level: level, Text: text}
}
