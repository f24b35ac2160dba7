package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baisoft/marketplace-api/internal/application/dto"
	"github.com/baisoft/marketplace-api/internal/application/usecase"
)

// UserHandler gestión de usuarios de la empresa (solo admin).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler construye el handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios de la empresa
// @Tags         business-users
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Busca en username y email"
// @Param        role       query  string  false  "admin, editor, approver, viewer"
// @Param        is_active  query  bool    false  "Filtrar por flag activo"
// @Param        ordering   query  string  false  "date_joined, username, role (prefijo - descendente)"
// @Param        page       query  int     false  "Página (10 por página)"  default(1)
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/business/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var q dto.UserListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.Context(), GetCaller(c), q)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear usuario en la empresa
// @Tags         business-users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/business/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetCaller(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener usuario de la empresa
// @Tags         business-users
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id debe ser un entero positivo"})
	}
	out, err := h.uc.GetByID(c.Context(), GetCaller(c), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar usuario de la empresa
// @Tags         business-users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del usuario"
// @Param        body  body  dto.UpdateUserRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/business/users/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id debe ser un entero positivo"})
	}
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), GetCaller(c), id, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar usuario de la empresa
// @Tags         business-users
// @Security     Bearer
// @Param        id   path  int  true  "ID del usuario"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/business/users/{id} [delete]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id debe ser un entero positivo"})
	}
	if err := h.uc.Delete(c.Context(), GetCaller(c), id); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
