package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tireshop/internal/domain"
	applog "tireshop/internal/log"
	"tireshop/internal/repos"
	"tireshop/internal/services"
	"tireshop/internal/validate"
)

type CatalogHandler struct {
	Catalog  *services.CatalogService
	Products *repos.ProductRepo
	Gate     *services.AdminGate
}

// publicProduct is the storefront projection: no active flag, active
// rows only.
type publicProduct struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Specs       []string `json:"specs"`
}

// GET /api/products[?admin=true]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	admin := c.Query("admin") == "true"
	if admin {
		if _, ok := requireAdmin(c, h.Gate); !ok {
			return forbidden(c)
		}
	}

	prods, err := h.Catalog.List(admin)
	if err != nil {
		applog.Error(c, "catalog.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}

	if admin {
		if prods == nil {
			prods = []domain.Product{}
		}
		return c.JSON(prods)
	}

	out := make([]publicProduct, 0, len(prods))
	for _, p := range prods {
		out = append(out, publicProduct{
			ID: p.ID, Name: p.Name, Price: p.Price,
			Image: p.Image, Description: p.Description, Specs: p.Specs,
		})
	}
	return c.JSON(out)
}

// DELETE /api/products/:id — soft delete; a missing id still acks.
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	userID, ok := requireAdmin(c, h.Gate)
	if !ok {
		return forbidden(c)
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product_id"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad product id"})
	}
	if err := h.Products.SetActive(id, false); err != nil {
		applog.Error(c, "catalog.delete", err, map[string]any{"product_id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update product"})
	}
	applog.Audit(c, "catalog.delete", map[string]any{"product_id": id, "admin_id": userID})
	return c.JSON(fiber.Map{"status": "ok"})
}
