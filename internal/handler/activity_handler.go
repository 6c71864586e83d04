package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aulavirtual/aula-go-api/internal/dto"
	"github.com/aulavirtual/aula-go-api/internal/models"
	"github.com/aulavirtual/aula-go-api/internal/service"
	"github.com/aulavirtual/aula-go-api/internal/utils"
)

// ActivityHandler exposes activity management and read endpoints.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

// RegisterCourseRoutes wires the course-scoped listing.
func (h *ActivityHandler) RegisterCourseRoutes(router fiber.Router) {
	router.Get("/:courseId/activities", h.listByCourse)
}

func (h *ActivityHandler) create(c *fiber.Ctx) error {
	teacherID, _, err := requireManager(c)
	if err != nil {
		return err
	}

	var payload dto.ActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Create(c.Context(), teacherID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "activity created", response)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.service.Get(c.Context(), id, userRoleFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity retrieved", response)
}

func (h *ActivityHandler) listByCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	responses, err := h.service.ListByCourse(c.Context(), courseID, userRoleFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activities listed", responses)
}

func (h *ActivityHandler) update(c *fiber.Ctx) error {
	teacherID, role, err := requireManager(c)
	if err != nil {
		return err
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Update(c.Context(), teacherID, id, role, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity updated", response)
}

func (h *ActivityHandler) delete(c *fiber.Ctx) error {
	teacherID, role, err := requireManager(c)
	if err != nil {
		return err
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), teacherID, id, role); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "activity deleted", nil)
}

// requireManager resolves the caller and rejects non-teaching roles.
func requireManager(c *fiber.Ctx) (uint, string, error) {
	id := userIDFromContext(c)
	role := userRoleFromContext(c)
	if id == 0 {
		return 0, "", utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if role != models.RoleTeacher && role != models.RoleAdmin {
		return 0, "", utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
	return id, role, nil
}

func (h *ActivityHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrActivityNotFound), errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotActivityOwner):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrCourseExpired), errors.Is(err, service.ErrActivityExpired):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSpecMismatch),
		errors.Is(err, service.ErrInvalidDeadline),
		errors.Is(err, service.ErrUnsupportedLanguage):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("activity operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
