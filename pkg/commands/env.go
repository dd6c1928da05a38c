package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/gdlpLG/lbcwatch/pkg/api"
	"github.com/gdlpLG/lbcwatch/pkg/config"
	"github.com/gdlpLG/lbcwatch/pkg/events"
	"github.com/gdlpLG/lbcwatch/pkg/logging"
	"github.com/gdlpLG/lbcwatch/pkg/notify"
	"github.com/gdlpLG/lbcwatch/pkg/prefs"
	"github.com/gdlpLG/lbcwatch/pkg/printers"
	"github.com/gdlpLG/lbcwatch/pkg/schedule"
	"github.com/gdlpLG/lbcwatch/pkg/session"
)

// env is everything a command needs, resolved from config and flags.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	level  *slog.LevelVar
	client *api.Client
	prefs  *prefs.Store

	closers []io.Closer
}

// loadEnv resolves the configuration. Logs go to stderr unless a log file is
// configured or quiet is set, in which case stderr stays untouched.
func loadEnv(quiet bool) (*env, error) {
	cfg, err := config.Load(vp)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, level: &slog.LevelVar{}}
	e.level.Set(level)
	switch {
	case cfg.LogFile != "":
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, f)
		e.log = logging.New(f, e.level, cfg.LogFormat)
	case quiet:
		e.log = logging.Discard()
	default:
		e.log = logging.New(os.Stderr, e.level, cfg.LogFormat)
	}
	slog.SetDefault(e.log)

	e.client = api.NewClient(cfg.Server, cfg.HTTPTimeout)
	e.prefs = prefs.Open(cfg.PrefsPath)
	return e, nil
}

// session builds a client session. A nil bus gets a fresh one; the notifier
// writes to stderr for CLI commands.
func (e *env) session(bus *events.Bus, n notify.Notifier) *session.ClientSession {
	if bus == nil {
		bus = events.NewBus(0)
	}
	if n == nil {
		n = notify.Nop{}
		if e.cfg.Notify {
			n = notify.NewTerminal(os.Stderr)
		}
	}
	return session.New(e.client, session.Options{
		Bus:             bus,
		Scheduler:       schedule.NewCron(e.log),
		Notifier:        n,
		Logger:          e.log,
		Prefs:           e.prefs,
		PollInterval:    e.cfg.PollInterval,
		UpdatesInterval: e.cfg.UpdatesInterval,
		BulkRate:        e.cfg.BulkRate,
	})
}

// watchConfig follows edits of the config file for long running commands.
// Only the log level applies live; the rest needs a restart.
func (e *env) watchConfig() {
	config.Watch(vp, func(cfg *config.Config, err error) {
		if err != nil {
			e.log.Warn("config reload failed", "err", err)
			return
		}
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			e.log.Warn("config reload failed", "err", err)
			return
		}
		e.level.Set(level)
		e.log.Info("config reloaded", "file", cfg.File, "level", level)
	})
}

// watch resolves the watch flag against the last opened watch.
func (e *env) watch(o interface{ Resolve(string) string }) string {
	return o.Resolve(e.prefs.LastWatch())
}

func (e *env) printer() *printers.PrettyPrint {
	return &printers.PrettyPrint{Verbose: output.Verbose}
}

func (e *env) Close() {
	for _, c := range e.closers {
		_ = c.Close()
	}
}
