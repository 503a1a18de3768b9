package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/http/response"
	"github.com/ampolabs/batchweigh-backend/internal/services"
)

type RawMaterialHandler struct {
	catalogService services.CatalogService
}

func NewRawMaterialHandler(catalogService services.CatalogService) *RawMaterialHandler {
	return &RawMaterialHandler{catalogService: catalogService}
}

func (rh *RawMaterialHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	material, err := rh.catalogService.CreateRawMaterial(c.Request.Context(), &types.RawMaterial{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, material)
}

func (rh *RawMaterialHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	material, err := rh.catalogService.GetRawMaterial(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, material)
}

func (rh *RawMaterialHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	materials, err := rh.catalogService.ListRawMaterials(c.Request.Context(), activeOnly)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, materials)
}

func (rh *RawMaterialHandler) Update(c *gin.Context) {
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
	material, err := rh.catalogService.GetRawMaterial(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	material.Name = req.Name
	material.Code = req.Code
	if req.Active != nil {
		material.Active = *req.Active
	}
	if err := rh.catalogService.UpdateRawMaterial(c.Request.Context(), material); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, material)
}

func (rh *RawMaterialHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := rh.catalogService.DeleteRawMaterial(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
