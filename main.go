package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"notesbot/bot"
	notesbot "notesbot/bots/NotesBot"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const stopOnFailure = false

// getLogger creates a logger in the given namespace
func getLogger(ns, level string) (*zap.SugaredLogger, func() error) {
	zcfg := zap.NewDevelopmentConfig()
	if level != "" {
		if lvl, err := zap.ParseAtomicLevel(level); err == nil {
			zcfg.Level = lvl
		}
	}

	logger, err := zcfg.Build(zap.Fields(zap.String("ns", ns)))
	if err != nil {
		logger, _ = zap.NewDevelopment(zap.Fields(zap.String("ns", ns)))
	}

	return logger.Sugar(), logger.Sync
}

func readConfig(cfgFile string) (*viper.Viper, error) {
	if cfgFile == "" {
		return nil, errors.New("configuration file name isn't set, use --config or CONFIG_FILE")
	}
	return bot.ReadConfig(cfgFile)
}

// runBots initializes every registered bot that has a configuration and runs
// them until ctx is cancelled
func runBots(ctx context.Context, v *viper.Viper) error {
	level := v.GetString(bot.CfgLoggerLevel)
	logger, syncLogs := getLogger("Global", level)
	defer syncLogs()

	var g errgroup.Group
	started := 0

	for _, rec := range bot.GetThemAll() {
		s, syncBotLogs := getLogger(rec.Name, level)
		defer syncBotLogs()

		cfg, ok := bot.BotConfig(v, rec.Name)
		if !ok {
			s.Errorf("couldn't find configuration for bot %q", rec.Name)
			if stopOnFailure {
				return errors.Errorf("no configuration for %q", rec.Name)
			}
			continue
		}

		if err := bot.ValidateConfig(rec, cfg); err != nil {
			s.Error(err)
			if stopOnFailure {
				return err
			}
			continue
		}

		if err := rec.Bot.Init(cfg, s); err != nil {
			if stopOnFailure {
				return errors.Wrapf(err, "couldn't initialize %q", rec.Name)
			}
			continue
		}

		b := rec.Bot
		g.Go(func() error {
			err := b.Run(ctx)
			if err != nil {
				s.Errorw("bot stopped with error", "err", err)
			} else {
				s.Info("bot stopped")
			}
			return err
		})
		started++
	}

	if started == 0 {
		return errors.New("no bot is running")
	}

	logger.Infof("%d bot(s) running", started)
	return g.Wait()
}

func runCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every configured bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readConfig(*cfgFile)
			if err != nil {
				return err
			}
			return runBots(cmd.Context(), v)
		},
	}
}

func dumpCmd(cfgFile *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the stored notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := readConfig(*cfgFile)
			if err != nil {
				return err
			}

			cfg, ok := bot.BotConfig(v, name)
			if !ok {
				return errors.Errorf("couldn't find configuration for bot %q", name)
			}
			return notesbot.Dump(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&name, "bot", "b", notesbot.Name, "Bot which notes to print")
	return cmd
}

// Botfarm entry point
func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          "botfarm",
		Short:        "Botfarm runs Telegram bots, NotesBot keeps tasks of a chat",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", os.Getenv("CONFIG_FILE"), "Botfarm configuration file (JSON or YAML)")

	run := runCmd(&cfgFile)
	rootCmd.RunE = run.RunE
	rootCmd.AddCommand(run)
	rootCmd.AddCommand(dumpCmd(&cfgFile))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
