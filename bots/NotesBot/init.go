package notesbot

import (
	"context"
	"sync"

	"notesbot/bot"
	"notesbot/bots/NotesBot/db"
	"notesbot/bots/NotesBot/notes"
	"notesbot/bots/NotesBot/router"
	"notesbot/bots/NotesBot/tgbot"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const Name = "NotesBot"

// telegram is the part of *tg.BotAPI the bot runs on
type telegram interface {
	tgbot.Requester
	GetUpdatesChan(config tg.UpdateConfig) tg.UpdatesChannel
	StopReceivingUpdates()
}

type NotesBot struct {
	api     telegram
	tbot    *tgbot.TBot
	gate    *notes.Gate
	storage db.Storage
	logger  *zap.SugaredLogger
}

func (nb *NotesBot) Init(cfg bot.Config, l *zap.SugaredLogger) error {
	c, err := loadConfig(cfg)
	if err != nil {
		l.Errorw("invalid configuration", "err", err)
		return err
	}

	b, err := tg.NewBotAPI(c.TgToken)
	if err != nil {
		l.Errorw("failed to initialize Telegram Bot", "err", err)
		return errors.Wrap(err, "couldn't initialize Telegram Bot")
	}

	b.Debug = false

	l.Infof("authorized on account %q (%q, %d)", b.Self.FirstName, b.Self.UserName, b.Self.ID)

	return nb.setup(context.Background(), c, b, clock.New(), l)
}

// setup loads the notes and wires the bot to api
func (nb *NotesBot) setup(ctx context.Context, c Config, api telegram, clk clock.Clock, l *zap.SugaredLogger) error {
	loc, err := c.location()
	if err != nil {
		l.Errorw("failed to load time zone", "err", err)
		return err
	}

	s, err := db.Open(ctx, c.Storage)
	if err != nil {
		l.Errorw("failed to initialize storage", "driver", c.Storage.Driver, "err", err)
		return err
	}

	snap, err := s.Load(ctx)
	if err != nil {
		l.Errorw("failed to load notes", "err", err)
		s.Close()
		return err
	}

	coll := notes.Restore(snap)
	l.Infow("notes loaded", "driver", c.Storage.Driver, "notes", coll.Len(), "next_id", coll.NextID())

	gate := notes.NewGate(coll, s, c.SaveEvery, l)
	rt := router.New(coll, gate, clk, loc, l)

	tb := tgbot.NewTBot(api, rt, l, rate.Limit(c.RateLimit), c.RateBurst)
	tb.RetryAttempts = c.RetryAttempts
	tb.RetryDelay = c.RetryDelay

	nb.api = api
	nb.tbot = tb
	nb.gate = gate
	nb.storage = s
	nb.logger = l
	return nil
}

// Run handles updates until ctx is cancelled, then saves the notes
func (nb *NotesBot) Run(ctx context.Context) error {
	if nb.tbot == nil {
		return errors.New("bot can't run: it isn't initialized")
	}

	uCfg := tg.NewUpdate(0)
	uCfg.Timeout = 60

	updates := nb.api.GetUpdatesChan(uCfg)
	var wg sync.WaitGroup

loop:
	for {
		select {
		case <-ctx.Done():
			break loop

		case u, ok := <-updates:
			if !ok {
				break loop
			}
			if u.Message == nil {
				continue
			}

			wg.Add(1)
			go func(msg *tg.Message) {
				defer wg.Done()
				if msg.IsCommand() {
					nb.tbot.HandleCommand(ctx, msg)
				} else {
					nb.tbot.HandleMessage(ctx, msg)
				}
			}(u.Message)
		}
	}

	nb.api.StopReceivingUpdates()
	wg.Wait()

	return nb.shutdown(context.WithoutCancel(ctx))
}

func (nb *NotesBot) shutdown(ctx context.Context) error {
	err := nb.gate.Flush(ctx)
	if err != nil {
		nb.logger.Errorw("failed saving notes on shutdown", "err", err)
	} else {
		nb.logger.Info("notes saved")
	}

	if cerr := nb.storage.Close(); cerr != nil {
		nb.logger.Warnw("failed closing storage", "err", cerr)
	}
	return err
}

func init() {
	bot.Register(Name, &NotesBot{}, bot.CfgTgToken)
}
