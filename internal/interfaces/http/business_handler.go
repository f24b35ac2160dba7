package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baisoft/marketplace-api/internal/application/usecase"
)

// BusinessHandler consulta de la empresa propia.
type BusinessHandler struct {
	uc *usecase.BusinessUseCase
}

// NewBusinessHandler construye el handler.
func NewBusinessHandler(uc *usecase.BusinessUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// Me godoc
// @Summary      Empresa del usuario autenticado
// @Tags         business
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BusinessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business/me [get]
func (h *BusinessHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.Context(), GetCaller(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
