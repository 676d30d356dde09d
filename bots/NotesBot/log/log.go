package log

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ForChat returns the logger for a single update coming from chat. Every
// entry carries the chat id and a request id shared by the whole update.
func ForChat(l *zap.SugaredLogger, chat int64) *zap.SugaredLogger {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	return l.With("chat", chat, "req", uuid.NewString())
}

func Error(l *zap.SugaredLogger, err error, s string) {
	l.Errorw(s, "err", err)
}

func Warnf(l *zap.SugaredLogger, s string, args ...interface{}) {
	l.Warnf(s, args...)
}
