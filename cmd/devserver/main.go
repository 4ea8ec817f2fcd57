package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"crmdesk/internal/devserver"
	"crmdesk/internal/platform/config"
	"crmdesk/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading configuration failed")
	}
	log := logging.Setup(cfg)

	store, err := devserver.NewStore(devserver.DefaultSeed(cfg.DevAdminEmail, cfg.DevAdminPassword))
	if err != nil {
		log.WithError(err).Fatal("seeding dev backend failed")
	}

	server := devserver.New(store, cfg.DevJWTSecret, log)

	log.WithField("addr", cfg.DevAddr).Info("dev backend listening")
	if err := http.ListenAndServe(cfg.DevAddr, server.Handler()); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
