package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type nopBot struct{}

func (nopBot) Init(cfg Config, l *zap.SugaredLogger) error { return nil }
func (nopBot) Run(ctx context.Context) error                { return nil }

func TestRegister(t *testing.T) {
	assert.True(t, Register("test-b", nopBot{}, CfgTgToken))
	assert.True(t, Register("test-a", nopBot{}))
	assert.False(t, Register("test-a", nopBot{}))

	rec, ok := Lookup("test-b")
	assert.True(t, ok)
	assert.Equal(t, []string{CfgTgToken}, rec.RequiredConfigFields)

	var names []string
	for _, rec := range GetThemAll() {
		names = append(names, rec.Name)
	}
	assert.Subset(t, names, []string{"test-a", "test-b"})
	assert.IsIncreasing(t, names)
}

func TestRobustExecute(t *testing.T) {
	calls := 0
	ok := RobustExecute(3, time.Millisecond, func() bool {
		calls++
		return calls == 2
	})
	assert.True(t, ok)
	assert.Equal(t, 2, calls)

	calls = 0
	ok = RobustExecute(3, time.Millisecond, func() bool {
		calls++
		return false
	})
	assert.False(t, ok)
	assert.Equal(t, 3, calls)
}
