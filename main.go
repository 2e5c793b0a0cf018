package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"umate/app/api"
	"umate/app/client/realtime"
	"umate/app/config"
	"umate/app/service/catalog"
	"umate/app/service/chat"
	"umate/app/service/filter"
	"umate/app/service/history"
	"umate/app/service/knowledge"
	"umate/app/service/lexicon"
	"umate/app/service/store"
	"umate/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"github.com/samber/do"
)

func main() {
	_ = godotenv.Load()

	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, realtime.NewClient)
	do.Provide(di, store.New)
	do.Provide(di, lexicon.New)
	do.Provide(di, filter.New)
	do.Provide(di, history.New)
	do.Provide(di, catalog.New)
	do.Provide(di, knowledge.New)
	do.Provide(di, chat.New)
	do.Provide(di, api.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*knowledge.Service](di).RunRefreshLoop(appCtx)

	go func() {
		if err := do.MustInvoke[*api.Service](di).Run(appCtx); err != nil {
			log.Errorf("server stopped: %v", err)
			cancel()
		}
	}()

	<-appCtx.Done()
}
