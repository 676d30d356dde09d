package tgbot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"notesbot/bots/NotesBot/notes"
	"notesbot/bots/NotesBot/router"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const chat = int64(-1001)

type fakeRequester struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []tg.MessageConfig
}

func (f *fakeRequester) Request(c tg.Chattable) (*tg.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("Too Many Requests: retry after 1")
	}

	m, ok := c.(tg.MessageConfig)
	if !ok {
		return nil, errors.Errorf("unexpected request %T", c)
	}
	f.sent = append(f.sent, m)
	return &tg.APIResponse{Ok: true}, nil
}

func (f *fakeRequester) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var texts []string
	for _, m := range f.sent {
		texts = append(texts, m.Text)
	}
	return texts
}

func newTestBot(t *testing.T) (*TBot, *fakeRequester) {
	t.Helper()

	c := notes.NewCollection()
	clk := clock.NewFake()
	clk.Set(time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC))
	rt := router.New(c, notes.NewGate(c, nil, notes.DefaultSaveEvery, nil), clk, time.UTC, nil)

	r := &fakeRequester{}
	b := NewTBot(r, rt, nil, 0, 0)
	b.RetryDelay = 0
	return b, r
}

func command(text string) *tg.Message {
	n := strings.IndexAny(text, " \n")
	if n < 0 {
		n = len(text)
	}
	return &tg.Message{
		MessageID: 7,
		Chat:      &tg.Chat{ID: chat},
		Text:      text,
		Entities:  []tg.MessageEntity{{Type: "bot_command", Offset: 0, Length: n}},
	}
}

func TestHandleCommand_CreateShowList(t *testing.T) {
	b, r := newTestBot(t)
	ctx := context.Background()

	b.HandleCommand(ctx, command("/create Buy milk"))
	b.HandleCommand(ctx, command("/setdead 1 2026-10-20"))
	b.HandleCommand(ctx, command("/edit 1 two liters"))
	b.HandleCommand(ctx, command("/show 1"))
	b.HandleCommand(ctx, command("/list"))

	note := "[1] Buy milk\nState: ToDo\nDeadline: 2026-10-20\n\ntwo liters"
	assert.Equal(t, []string{"Ok:)", "State changed", "State changed", note, note, "Ok:)"}, r.texts())

	for _, m := range r.sent {
		assert.Equal(t, chat, m.ChatID)
		assert.Zero(t, m.ReplyToMessageID)
	}
}

func TestHandleCommand_ParseFailure(t *testing.T) {
	b, r := newTestBot(t)

	b.HandleCommand(context.Background(), command("/setstate one Done"))

	require.Len(t, r.sent, 1)
	assert.Equal(t, "First argument should be a number!\nUsage: /setstate <id> <ToDo | Doing | Done>", r.sent[0].Text)
	assert.Equal(t, 7, r.sent[0].ReplyToMessageID)
}

func TestHandleCommand_Unknown(t *testing.T) {
	b, r := newTestBot(t)

	b.HandleCommand(context.Background(), command("/frobnicate 1"))

	assert.Equal(t, []string{txtUnknownCommand}, r.texts())
}

func TestHandleCommand_Start(t *testing.T) {
	b, r := newTestBot(t)

	b.HandleCommand(context.Background(), command("/start"))

	texts := r.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, txtWelcomeMessage, texts[0])
	assert.True(t, strings.HasPrefix(texts[1], "These commands are supported:"))
}

func TestHandleCommand_InvalidState(t *testing.T) {
	b, r := newTestBot(t)
	ctx := context.Background()

	b.HandleCommand(ctx, command("/create a"))
	b.HandleCommand(ctx, command("/setstate 1 Finished"))
	b.HandleCommand(ctx, command("/setstate 9 Done"))

	assert.Equal(t, []string{"Ok:)", "Invalid state", "Unknown id"}, r.texts())
}

func TestHandleMessage(t *testing.T) {
	b, r := newTestBot(t)

	b.HandleMessage(context.Background(), &tg.Message{MessageID: 3, Chat: &tg.Chat{ID: chat}, Text: "hello"})

	require.Len(t, r.sent, 1)
	assert.Equal(t, txtUseHelp, r.sent[0].Text)
	assert.Equal(t, 3, r.sent[0].ReplyToMessageID)
}

func TestSendMessage_Retries(t *testing.T) {
	b, r := newTestBot(t)
	r.failures = 2

	require.NoError(t, b.SendMessage(context.Background(), chat, "hi", -1))
	assert.Equal(t, 3, r.calls)
	assert.Equal(t, []string{"hi"}, r.texts())

	r.failures = 5
	assert.Error(t, b.SendMessage(context.Background(), chat, "lost", -1))
	assert.Equal(t, 6, r.calls)
}

func TestSendMessage_CancelledContext(t *testing.T) {
	b, r := newTestBot(t)
	b.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, b.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, b.SendMessage(ctx, chat, "hi", -1))
	assert.Zero(t, r.calls)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	long := strings.Repeat("ж", maxMessageLen+10)
	got := []rune(truncate(long))
	assert.Len(t, got, maxMessageLen)
	assert.Equal(t, '…', got[len(got)-1])
}
