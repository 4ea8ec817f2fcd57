package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"crmdesk/internal/api"
	"crmdesk/internal/authz"
	"crmdesk/internal/leave"
	"crmdesk/internal/notify"
	"crmdesk/internal/notify/telegramsink"
	"crmdesk/internal/platform/config"
	"crmdesk/internal/platform/logging"
	"crmdesk/internal/platform/state"
	"crmdesk/internal/session"
	"crmdesk/internal/ui"
	"crmdesk/internal/users"
)

func main() {
	once := flag.Bool("once", false, "run a single command and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading configuration failed")
	}
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.Setup(cfg)

	stateStore, err := state.OpenSQLite(cfg.StateDir)
	if err != nil {
		log.WithError(err).Fatal("opening local state failed")
	}
	defer stateStore.Close()

	httpClient := &http.Client{Timeout: 15 * time.Second}

	sessions := session.New(cfg.APIBaseURL, stateStore,
		session.WithHTTPClient(httpClient),
		session.WithOfflineFallback(cfg.AllowOfflineLogin),
		session.WithLogger(log),
	)
	sessions.Restore()

	client := api.New(cfg.APIBaseURL,
		api.WithHTTPClient(httpClient),
		api.WithTokenSource(sessions.Token),
		api.WithUnauthorizedHook(sessions.Expire),
		api.WithLogger(log),
	)

	leaves := leave.NewStore(client, sessions, log)
	directory := users.NewStore(client, log)

	toasterOpts := []notify.ToasterOption{notify.WithSink(notify.NewConsoleSink(os.Stdout))}
	if cfg.TelegramEnabled() {
		sink, err := telegramsink.New(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.WithError(err).Warn("telegram sink unavailable")
		} else {
			toasterOpts = append(toasterOpts, notify.WithSink(sink))
		}
	}
	toaster := notify.NewToaster(toasterOpts...)

	// Decision toasts only apply to a requester's own records, so the
	// watcher follows whoever is signed in. One watcher per identity:
	// logging back in within a process does not re-announce old
	// decisions, while a fresh process starts clean.
	watchers := make(map[api.ID]*notify.Watcher)
	leaves.OnUpdate(func(requests []leave.Request) {
		sess := sessions.Current()
		if sess == nil || authz.IsAdminOrHr(sess.Role) {
			return
		}
		watcher, ok := watchers[sess.ID]
		if !ok {
			watcher = notify.NewWatcher(sess.ID, toaster)
			watchers[sess.ID] = watcher
		}
		watcher.Observe(requests)
	})

	app := ui.New(ui.Deps{
		Sessions:  sessions,
		Leaves:    leaves,
		Users:     directory,
		Toaster:   toaster,
		State:     stateStore,
		Log:       log,
		ExportDir: cfg.StateDir,
	}, os.Stdin, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := app.RunOnce(ctx, flag.Args()); err != nil {
			log.Fatal(err)
		}
		return
	}
	app.Run(ctx)
}
