package api

import (
	"errors"
	"strconv"

	"github.com/bilgisen/rsswatch/internal/logger"
	"github.com/bilgisen/rsswatch/internal/middleware"
	"github.com/bilgisen/rsswatch/internal/scheduler"
	"github.com/bilgisen/rsswatch/internal/store"
	"github.com/gofiber/fiber/v2"
)

type feedRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type keywordRequest struct {
	Keyword string `json:"keyword" validate:"required,min=1"`
}

type Handlers struct {
	store     *store.Store
	scheduler *scheduler.Scheduler
	validator *middleware.Validator
}

func NewHandlers(st *store.Store, sched *scheduler.Scheduler) *Handlers {
	return &Handlers{
		store:     st,
		scheduler: sched,
		validator: middleware.NewValidator(),
	}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		logger.Get().Error().Err(err).Msg("Health check failed: store unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"error":  "storage unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// ListFeeds handles GET /api/v1/feeds
func (h *Handlers) ListFeeds(c *fiber.Ctx) error {
	feeds, err := h.store.ListFeeds(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing feeds")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list feeds",
		})
	}
	return c.JSON(feeds)
}

// CreateFeed handles POST /api/v1/feeds
func (h *Handlers) CreateFeed(c *fiber.Ctx) error {
	var req feedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": h.validator.Fields(err),
		})
	}

	feed, err := h.store.AddFeed(c.Context(), req.URL)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Feed already exists",
			})
		}
		if errors.Is(err, store.ErrInvalid) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Feed URL must not be blank",
			})
		}
		logger.Get().Error().Err(err).Str("url", req.URL).Msg("Error adding feed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add feed",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(feed)
}

// DeleteFeed handles DELETE /api/v1/feeds/:id
func (h *Handlers) DeleteFeed(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid feed ID",
		})
	}

	if err := h.store.RemoveFeed(c.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Feed not found",
			})
		}
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error deleting feed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete feed",
		})
	}
	return c.JSON(fiber.Map{
		"status": "deleted",
	})
}

// ListKeywords handles GET /api/v1/keywords
func (h *Handlers) ListKeywords(c *fiber.Ctx) error {
	keywords, err := h.store.ListKeywords(c.Context())
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error listing keywords")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list keywords",
		})
	}
	return c.JSON(keywords)
}

// CreateKeyword handles POST /api/v1/keywords
func (h *Handlers) CreateKeyword(c *fiber.Ctx) error {
	var req keywordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body: " + err.Error(),
		})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": h.validator.Fields(err),
		})
	}

	kw, err := h.store.AddKeyword(c.Context(), req.Keyword)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Keyword already exists",
			})
		}
		if errors.Is(err, store.ErrInvalid) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Keyword must not be blank",
			})
		}
		logger.Get().Error().Err(err).Str("keyword", req.Keyword).Msg("Error adding keyword")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add keyword",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(kw)
}

// DeleteKeyword handles DELETE /api/v1/keywords/:id
func (h *Handlers) DeleteKeyword(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid keyword ID",
		})
	}

	if err := h.store.RemoveKeyword(c.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Keyword not found",
			})
		}
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error deleting keyword")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete keyword",
		})
	}
	return c.JSON(fiber.Map{
		"status": "deleted",
	})
}

// TriggerFetch handles POST /api/v1/fetch
func (h *Handlers) TriggerFetch(c *fiber.Ctx) error {
	summary, err := h.scheduler.TriggerNow(c.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrBusy) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "busy",
			})
		}
		logger.Get().Error().Err(err).Msg("Manual fetch run failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Fetch run failed",
		})
	}
	return c.JSON(summary)
}

// ListNews handles GET /api/v1/news
func (h *Handlers) ListNews(c *fiber.Ctx) error {
	var filter store.NewsFilter

	if keyword := c.Query("keyword"); keyword != "" {
		filter.Keyword = &keyword
	}
	if feedParam := c.Query("feed_id"); feedParam != "" {
		feedID, err := strconv.ParseInt(feedParam, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid feed_id",
			})
		}
		filter.FeedID = &feedID
	}

	items, err := h.store.QueryNews(c.Context(), filter)
	if err != nil {
		logger.Get().Error().Err(err).Msg("Error querying news")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to query news",
		})
	}
	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// GetNewsByID handles GET /api/v1/news/:id
func (h *Handlers) GetNewsByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid news ID",
		})
	}

	item, err := h.store.GetNews(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "News not found",
			})
		}
		logger.Get().Error().Err(err).Int64("id", id).Msg("Error getting news item")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get news item",
		})
	}
	return c.JSON(item)
}
