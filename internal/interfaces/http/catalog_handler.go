package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/application/usecase"
)

// CatalogHandler handles brands, categories and expense categories.
type CatalogHandler struct {
	brands     *usecase.BrandUseCase
	categories *usecase.CategoryUseCase
	expenseCat *usecase.ExpenseCategoryUseCase
}

// NewCatalogHandler builds the handler.
func NewCatalogHandler(
	brands *usecase.BrandUseCase,
	categories *usecase.CategoryUseCase,
	expenseCat *usecase.ExpenseCategoryUseCase,
) *CatalogHandler {
	return &CatalogHandler{brands: brands, categories: categories, expenseCat: expenseCat}
}

// CreateBrand POST /api/brands
func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var in dto.CreateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.brands.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListBrands GET /api/brands
func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.brands.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RenameBrand PUT /api/brands/:id
func (h *CatalogHandler) RenameBrand(c *fiber.Ctx) error {
	var in dto.CreateBrandRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.brands.Rename(c.UserContext(), c.Params("id"), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteBrand DELETE /api/brands/:id
func (h *CatalogHandler) DeleteBrand(c *fiber.Ctx) error {
	if err := h.brands.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateCategory POST /api/categories
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.categories.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCategories GET /api/categories
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.categories.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteCategory DELETE /api/categories/:id
func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categories.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateExpenseCategory POST /api/expense-categories
func (h *CatalogHandler) CreateExpenseCategory(c *fiber.Ctx) error {
	var in dto.CreateExpenseCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.expenseCat.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListExpenseCategories GET /api/expense-categories
func (h *CatalogHandler) ListExpenseCategories(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.expenseCat.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteExpenseCategory DELETE /api/expense-categories/:id
func (h *CatalogHandler) DeleteExpenseCategory(c *fiber.Ctx) error {
	if err := h.expenseCat.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
