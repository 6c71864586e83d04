package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aulavirtual/aula-go-api/internal/dto"
	"github.com/aulavirtual/aula-go-api/internal/template"
	"github.com/aulavirtual/aula-go-api/internal/utils"
	"github.com/aulavirtual/aula-go-api/pkg/judge0"
)

// LanguageHandler lists the submission languages the judge accepts,
// together with their editor starter code.
type LanguageHandler struct{}

// NewLanguageHandler constructs the handler.
func NewLanguageHandler() *LanguageHandler {
	return &LanguageHandler{}
}

// Register wires the handler endpoints into the router group.
func (h *LanguageHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *LanguageHandler) list(c *fiber.Ctx) error {
	names := judge0.Languages()
	responses := make([]dto.LanguageResponse, 0, len(names))
	for _, name := range names {
		judgeID, _ := judge0.LanguageID(name)
		starter, _ := template.StarterFor(name)
		responses = append(responses, dto.LanguageResponse{
			Name:    name,
			JudgeID: judgeID,
			Starter: starter,
		})
	}
	return utils.SendSuccess(c, "languages listed", responses)
}
