package tgbot

import (
	"context"
	"strings"
	"time"

	"notesbot/bot"
	"notesbot/bots/NotesBot/log"
	"notesbot/bots/NotesBot/router"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxMessageLen = 4096

const (
	txtWelcomeMessage = "Hello, I keep your tasks. Create one with /create, set its state and deadline, and ask me for the agenda of the week."
	txtUseHelp        = "I only understand commands. Use /help to list them"
	txtUnknownCommand = "I don't known this command. Use /help to list commands I know"
	txtNotNumber      = "First argument should be a number!"
)

// Requester sends a request to Telegram. *tg.BotAPI is one.
type Requester interface {
	Request(c tg.Chattable) (*tg.APIResponse, error)
}

type TBot struct {
	Bot           Requester
	Router        *router.Router
	Logger        *zap.SugaredLogger
	RetryDelay    time.Duration
	RetryAttempts int
	limiter       *rate.Limiter
}

// NewTBot creates the bot. A non-positive limit disables rate limiting of
// outgoing messages.
func NewTBot(r Requester, rt *router.Router, l *zap.SugaredLogger, limit rate.Limit, burst int) *TBot {
	if limit <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}

	return &TBot{
		Bot:           r,
		Router:        rt,
		Logger:        l,
		RetryAttempts: 3,
		RetryDelay:    1 * time.Second,
		limiter:       rate.NewLimiter(limit, burst),
	}
}

func (b *TBot) HandleCommand(ctx context.Context, msg *tg.Message) {
	chat := msg.Chat.ID
	l := log.ForChat(b.Logger, chat)

	name := msg.Command()
	cmd, err := ParseCommand(name, msg.CommandArguments())
	if err != nil {
		log.Warnf(l, "couldn't parse command %q: %v", name, err)
		b.sendMessage(ctx, l, chat, parseFailureText(name, err), msg.MessageID)
		return
	}

	if strings.EqualFold(name, cmdStart) {
		l.Info("chat has started the bot")
		if b.sendMessage(ctx, l, chat, txtWelcomeMessage, -1) != nil {
			return
		}
	}

	reply := b.Router.Route(ctx, chat, cmd)
	if reply.Err != nil {
		l.Warnw("command failed", "cmd", cmd.Kind.String(), "id", cmd.ID, "err", reply.Err)
	}

	for _, txt := range reply.Texts {
		if b.sendMessage(ctx, l, chat, txt, -1) != nil {
			return
		}
	}
}

func (b *TBot) HandleMessage(ctx context.Context, msg *tg.Message) {
	chat := msg.Chat.ID
	b.sendMessage(ctx, log.ForChat(b.Logger, chat), chat, txtUseHelp, msg.MessageID)
}

// SendMessage sends txt to chat, as a reply to the message replyTo unless
// it's negative.
func (b *TBot) SendMessage(ctx context.Context, chat int64, txt string, replyTo int) error {
	return b.sendMessage(ctx, log.ForChat(b.Logger, chat), chat, txt, replyTo)
}

func (b *TBot) sendMessage(ctx context.Context, l *zap.SugaredLogger, chat int64, txt string, replyTo int) error {
	m := tg.NewMessage(chat, truncate(txt))
	if replyTo >= 0 {
		m.ReplyToMessageID = replyTo
	}
	m.DisableWebPagePreview = true

	var err error
	bot.RobustExecute(b.RetryAttempts, b.RetryDelay, func() bool {
		if err = b.limiter.Wait(ctx); err != nil {
			err = errors.Wrap(err, "rate limiter")
			return true
		}
		_, err = b.Bot.Request(m)
		return err == nil
	})
	if err != nil {
		log.Error(l, err, "failed sending message")
	}
	return err
}

func truncate(txt string) string {
	r := []rune(txt)
	if len(r) <= maxMessageLen {
		return txt
	}
	return string(r[:maxMessageLen-1]) + "…"
}
