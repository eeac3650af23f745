package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shopcore/internal/model"
	"shopcore/internal/service"
)

// SeedHandler exposes a development endpoint that loads catalog fixtures.
type SeedHandler struct {
	catalogService service.CatalogService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(catalogService service.CatalogService) *SeedHandler {
	return &SeedHandler{catalogService: catalogService}
}

// SeedResponse represents the seed result.
type SeedResponse struct {
	Message    string `json:"message"`
	Categories int    `json:"categories"`
	Products   int    `json:"products"`
}

type seedProduct struct {
	name        string
	description string
	stock       uint
	imageURL    string
}

type seedCategory struct {
	name        string
	description string
	products    []seedProduct
}

var catalogFixtures = []seedCategory{
	{
		name:        "Electronics",
		description: "Phones, laptops and accessories",
		products: []seedProduct{
			{"Wireless Earbuds", "Bluetooth 5.3, 24h battery", 120, "https://cdn.example.com/img/earbuds.jpg"},
			{"USB-C Charger 65W", "GaN fast charger", 300, "https://cdn.example.com/img/charger.jpg"},
		},
	},
	{
		name:        "Home & Kitchen",
		description: "Everyday household goods",
		products: []seedProduct{
			{"French Press", "Stainless steel, 1L", 45, "https://cdn.example.com/img/frenchpress.jpg"},
		},
	},
}

// SeedCatalog godoc
// @Summary Seed catalog fixtures
// @Tags seed
// @Produce json
// @Success 200 {object} SeedResponse
// @Failure 500 {object} map[string]string
// @Router /seed/catalog [get]
func (h *SeedHandler) SeedCatalog(c echo.Context) error {
	ctx := c.Request().Context()
	categories, products := 0, 0

	for _, fixture := range catalogFixtures {
		category := &model.Category{Name: fixture.name, Description: fixture.description}
		if err := h.catalogService.CreateCategory(ctx, category); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
				"error": "failed to seed category: " + err.Error(),
			})
		}
		categories++

		for _, p := range fixture.products {
			product := &model.Product{
				Name:        p.name,
				Description: p.description,
				CategoryID:  category.ID,
				Stock:       p.stock,
			}
			if err := h.catalogService.CreateProduct(ctx, product); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
					"error": "failed to seed product: " + err.Error(),
				})
			}
			if _, err := h.catalogService.AddProductImage(ctx, product.ID, p.imageURL, true); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
					"error": "failed to seed product image: " + err.Error(),
				})
			}
			products++
		}
	}

	return c.JSON(http.StatusOK, SeedResponse{
		Message:    "Catalog seeded successfully",
		Categories: categories,
		Products:   products,
	})
}
