package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/baisoft/marketplace-api/internal/application/dto"
	"github.com/baisoft/marketplace-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// ListPublic godoc
// @Summary      Catálogo público de productos aprobados
// @Tags         products
// @Produce      json
// @Param        search    query  string  false  "Busca en name y description"
// @Param        ordering  query  string  false  "created_at, price, name (prefijo - descendente)"
// @Param        page      query  int     false  "Página (10 por página)"  default(1)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/public [get]
func (h *ProductHandler) ListPublic(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.ListPublic(c.Context(), q)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// ListInternal godoc
// @Summary      Listar productos de la empresa (sin eliminados)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Busca en name y description"
// @Param        status    query  string  false  "draft, pending_approval, approved"
// @Param        ordering  query  string  false  "created_at, price, name, status (prefijo - descendente)"
// @Param        page      query  int     false  "Página (10 por página)"  default(1)
// @Success      200  {object}  dto.ProductListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/products/internal [get]
func (h *ProductHandler) ListInternal(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.ListInternal(c.Context(), GetCaller(c), q)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products/internal [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
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
// @Summary      Obtener producto por ID (empresa propia)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id debe ser un entero positivo"})
	}
	var in dto.UpdateProductRequest
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
// @Summary      Borrado lógico de producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id debe ser un entero positivo"})
	}
	if err := h.uc.SoftDelete(c.Context(), GetCaller(c), id); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Approve godoc
// @Summary      Aprobar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/approve [post]
func (h *ProductHandler) Approve(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id debe ser un entero positivo"})
	}
	out, err := h.uc.Approve(c.Context(), GetCaller(c), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// BulkApprove godoc
// @Summary      Aprobación masiva de productos
// @Description  Máximo 100 IDs. Las fallas por producto se cuentan en el resumen, no abortan la petición.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkApproveRequest  true  "IDs de producto"
// @Success      200   {object}  dto.BulkApproveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products/bulk-approve [post]
func (h *ProductHandler) BulkApprove(c *fiber.Ctx) error {
	var in dto.BulkApproveRequest
	if err := c.BodyParser(&in); err != nil {
		// IDs no enteros o cuerpo que no es lista: rechazo sin efectos.
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_ids debe ser una lista de enteros"})
	}
	out, err := h.uc.BulkApprove(c.Context(), GetCaller(c), in.ProductIDs)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Restore godoc
// @Summary      Restaurar producto eliminado
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/restore [post]
func (h *ProductHandler) Restore(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id debe ser un entero positivo"})
	}
	out, err := h.uc.Restore(c.Context(), GetCaller(c), id)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// parseID valida que el path param sea un entero positivo bien formado.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
