package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/http/response"
	"github.com/ampolabs/batchweigh-backend/internal/services"
)

type ProductHandler struct {
	catalogService services.CatalogService
}

func NewProductHandler(catalogService services.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

func (ph *ProductHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	product, err := ph.catalogService.CreateProduct(c.Request.Context(), &types.Product{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, product)
}

func (ph *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := ph.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, product)
}

func (ph *ProductHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	products, err := ph.catalogService.ListProducts(c.Request.Context(), activeOnly)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, products)
}

func (ph *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name   string `json:"name"`
		Code   string `json:"code"`
		Active *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	product, err := ph.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	product.Name = req.Name
	product.Code = req.Code
	if req.Active != nil {
		product.Active = *req.Active
	}
	if err := ph.catalogService.UpdateProduct(c.Request.Context(), product); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, product)
}

func (ph *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ph.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
