package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"umate/app/config"
	"umate/app/service/catalog"
	"umate/app/service/chat"
	"umate/app/service/history"
	"umate/app/service/knowledge"
	"umate/app/service/lexicon"
	"umate/app/service/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
)

const shutdownTimeout = 5 * time.Second

type Service struct {
	cfg          *config.Config
	appCtx       context.Context
	chatSvc      *chat.Service
	knowledgeSvc *knowledge.Service
	historySvc   *history.Service
	catalogSvc   *catalog.Service
	lexiconSvc   *lexicon.Service
	storeSvc     *store.Service

	app *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:          do.MustInvoke[*config.Config](di),
		appCtx:       do.MustInvoke[context.Context](di),
		chatSvc:      do.MustInvoke[*chat.Service](di),
		knowledgeSvc: do.MustInvoke[*knowledge.Service](di),
		historySvc:   do.MustInvoke[*history.Service](di),
		catalogSvc:   do.MustInvoke[*catalog.Service](di),
		lexiconSvc:   do.MustInvoke[*lexicon.Service](di),
		storeSvc:     do.MustInvoke[*store.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(s.cfg.Server.AllowedOrigins, ","),
	}))
	s.app.Use(limiter.New(limiter.Config{
		Max:        s.cfg.Server.RequestsPerMinute,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			// session lifetime exceeds the limiter window
			return strings.HasPrefix(c.Path(), "/realtime-chat")
		},
	}))

	s.registerRoutes()

	return s, nil
}

func (s *Service) registerRoutes() {
	s.registerRealtime()

	s.app.Get("/realtime-chat/connections", s.handleConnections)

	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/services/dynamic", s.handleDynamicServices)
	api.Post("/knowledge/refresh", s.handleKnowledgeRefresh)
	api.Post("/history/reset", s.handleHistoryReset)
	api.Get("/filter/stats", s.handleFilterStats)
	api.Post("/filter/terms", s.handleAddTerm)
	api.Delete("/filter/terms", s.handleRemoveTerm)
}

func (s *Service) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Server listening", "addr", s.cfg.Server.Addr)

	if err := s.app.Listen(s.cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
