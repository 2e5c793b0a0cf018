package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (s *Service) handleHealth(c *fiber.Ctx) error {
	if err := s.storeSvc.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":      "ok",
		"connections": s.chatSvc.ConnectionCount(),
		"timestamp":   time.Now(),
	})
}

func (s *Service) handleConnections(c *fiber.Ctx) error {
	connections := s.chatSvc.Connections()

	return c.JSON(fiber.Map{
		"totalConnections": len(connections),
		"connections":      connections,
	})
}

func (s *Service) handleDynamicServices(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q parameter is required")
	}

	services, err := s.catalogSvc.SearchServices(c.Context(), query)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "service lookup failed")
	}

	faq, err := s.catalogSvc.SearchFAQ(c.Context(), query)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "faq lookup failed")
	}

	return c.JSON(fiber.Map{
		"query":    query,
		"services": services,
		"faq":      faq,
	})
}

func (s *Service) handleKnowledgeRefresh(c *fiber.Ctx) error {
	if err := s.knowledgeSvc.Refresh(c.Context()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "knowledge refresh failed")
	}

	snapshot, builtAt := s.knowledgeSvc.Snapshot()

	return c.JSON(fiber.Map{
		"status":  "refreshed",
		"builtAt": builtAt,
		"size":    len(snapshot),
	})
}

func (s *Service) handleHistoryReset(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	if err := s.historySvc.Reset(c.Context(), body.Email); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "history reset failed")
	}

	return c.JSON(fiber.Map{
		"status": "reset",
		"email":  body.Email,
	})
}

func (s *Service) handleFilterStats(c *fiber.Ctx) error {
	return c.JSON(s.lexiconSvc.Stats())
}

type termRequest struct {
	List string `json:"list"`
	Term string `json:"term"`
}

func (s *Service) handleAddTerm(c *fiber.Ctx) error {
	var body termRequest
	if err := c.BodyParser(&body); err != nil || body.Term == "" {
		return fiber.NewError(fiber.StatusBadRequest, "term is required")
	}

	var added bool

	switch body.List {
	case "blocked":
		added = s.lexiconSvc.AddBlockedTerm(body.Term)
	case "disallowed":
		added = s.lexiconSvc.AddDisallowedTopic(body.Term)
	case "allowed":
		added = s.lexiconSvc.AddAllowedTerm(body.Term)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "list must be blocked, disallowed or allowed")
	}

	return c.JSON(fiber.Map{
		"added": added,
		"stats": s.lexiconSvc.Stats(),
	})
}

func (s *Service) handleRemoveTerm(c *fiber.Ctx) error {
	var body termRequest
	if err := c.BodyParser(&body); err != nil || body.Term == "" {
		return fiber.NewError(fiber.StatusBadRequest, "term is required")
	}

	var removed bool

	switch body.List {
	case "blocked":
		removed = s.lexiconSvc.RemoveBlockedTerm(body.Term)
	case "disallowed":
		removed = s.lexiconSvc.RemoveDisallowedTopic(body.Term)
	case "allowed":
		removed = s.lexiconSvc.RemoveAllowedTerm(body.Term)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "list must be blocked, disallowed or allowed")
	}

	return c.JSON(fiber.Map{
		"removed": removed,
		"stats":   s.lexiconSvc.Stats(),
	})
}
