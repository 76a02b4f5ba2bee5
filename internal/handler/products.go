package handler

import (
	"net/http"

	"github.com/saadmalik-333/business-insight-pos/internal/apierror"
	"github.com/saadmalik-333/business-insight-pos/internal/dto"
	"github.com/saadmalik-333/business-insight-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductsHandler serves the read-only catalog and inventory views.
type ProductsHandler struct{ svc service.CatalogService }

func NewProductsHandler(svc service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary  List active products
// @Tags     products
// @Produce  json
// @Security BearerAuth
// @Param    search      query string false "Name or SKU fragment"
// @Param    category_id query string false "Category UUID"
// @Param    page        query int    false "Page (default 1)"
// @Param    limit       query int    false "Page size (default 50)"
// @Success  200 {object} dto.ProductListResponse
// @Router   /v1/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary  Get a product
// @Tags     products
// @Produce  json
// @Security BearerAuth
// @Param    id  path     string true "Product UUID"
// @Success  200 {object} dto.ProductResponse
// @Failure  404 {object} apierror.APIError
// @Router   /v1/products/{id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock godoc
// @Summary  Products at or below their minimum stock level
// @Tags     products
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} dto.ProductResponse
// @Router   /v1/products/low-stock [get]
func (h *ProductsHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InventorySummary godoc
// @Summary  Inventory overview
// @Tags     inventory
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} dto.InventorySummaryResponse
// @Router   /v1/inventory/summary [get]
func (h *ProductsHandler) InventorySummary(c *gin.Context) {
	resp, err := h.svc.InventorySummary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary  Stock movement audit trail
// @Tags     inventory
// @Produce  json
// @Security BearerAuth
// @Param    product_id query string false "Product UUID"
// @Param    sale_id    query string false "Sale UUID"
// @Param    kind       query string false "sale | void_restore"
// @Param    page       query int    false "Page (default 1)"
// @Param    limit      query int    false "Page size (default 100)"
// @Success  200 {object} dto.StockMovementListResponse
// @Failure  422 {object} apierror.ValidationError
// @Router   /v1/inventory/movements [get]
func (h *ProductsHandler) Movements(c *gin.Context) {
	var filter dto.StockMovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Categories godoc
// @Summary  List categories
// @Tags     products
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} dto.CategoryResponse
// @Router   /v1/categories [get]
func (h *ProductsHandler) Categories(c *gin.Context) {
	resp, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PriceCheck godoc
// @Summary Price check by SKU (no authentication)
// @Tags    price
// @Produce json
// @Param   sku path string true "Product SKU"
// @Success 200 {object} dto.PriceCheckResponse
// @Failure 404 {object} apierror.APIError
// @Router  /v1/price/{sku} [get]
func (h *ProductsHandler) PriceCheck(c *gin.Context) {
	resp, err := h.svc.PriceBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
