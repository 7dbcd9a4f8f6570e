package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"tezgo/infrastructure/logging"
	"tezgo/infrastructure/settings"
	"tezgo/presentation"
)

func main() {
	appCtx, appCtxCancel := context.WithCancel(context.Background())
	defer appCtxCancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigChan
		appCtxCancel()
	}()

	configPath := os.Getenv("TEZGO_CONFIG")
	if configPath == "" {
		configPath = settings.DefaultPath
	}
	conf, err := settings.Load(configPath)
	logger := logging.NewLogger(conf.LogLevel)
	if err != nil {
		logger.WithError(err).Error("could not load settings")
		os.Exit(1)
	}

	var peerArgument string
	if len(os.Args) > 1 {
		peerArgument = os.Args[1]
	}

	if err := presentation.StartClient(appCtx, conf, peerArgument, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted")
			return
		}
		logger.WithError(err).Error("socket failed")
		os.Exit(1)
	}
}
