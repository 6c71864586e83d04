package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aulavirtual/aula-go-api/internal/service"
	"github.com/aulavirtual/aula-go-api/internal/utils"
)

// RankingHandler exposes the leaderboards.
type RankingHandler struct {
	service service.RankingService
	logger  zerolog.Logger
}

// NewRankingHandler constructs the handler.
func NewRankingHandler(service service.RankingService, logger zerolog.Logger) *RankingHandler {
	return &RankingHandler{
		service: service,
		logger:  logger.With().Str("component", "ranking_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *RankingHandler) Register(router fiber.Router) {
	router.Get("", h.global)
	router.Get("/courses/:courseId", h.byCourse)
}

func (h *RankingHandler) global(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.Global(c.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build global ranking")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "ranking retrieved", entries)
}

func (h *RankingHandler) byCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	entries, err := h.service.ByCourse(c.Context(), courseID, limit)
	if err != nil {
		h.logger.Error().Err(err).Uint("course_id", courseID).Msg("failed to build course ranking")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "ranking retrieved", entries)
}
