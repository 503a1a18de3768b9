package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ampolabs/batchweigh-backend/internal/http/response"
	"github.com/ampolabs/batchweigh-backend/internal/services"
)

type StructureHandler struct {
	structureService services.StructureService
}

func NewStructureHandler(structureService services.StructureService) *StructureHandler {
	return &StructureHandler{structureService: structureService}
}

type structureItemRequest struct {
	RawMaterialID uuid.UUID       `json:"raw_material_id"`
	QtyPerBatchG  decimal.Decimal `json:"qty_per_batch_g"`
}

func (sh *StructureHandler) Create(c *gin.Context) {
	var req struct {
		ProductID   uuid.UUID              `json:"product_id"`
		Description string                 `json:"description"`
		Items       []structureItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	items := make([]services.StructureItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.StructureItemInput{
			RawMaterialID: it.RawMaterialID,
			QtyPerBatchG:  it.QtyPerBatchG,
		})
	}
	structure, err := sh.structureService.Create(c.Request.Context(), req.ProductID, req.Description, items)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, structure)
}

func (sh *StructureHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	structure, err := sh.structureService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, structure)
}

func (sh *StructureHandler) ListByProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	structures, err := sh.structureService.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, structures)
}

func (sh *StructureHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Description string `json:"description"`
		Active      *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	structure, err := sh.structureService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	structure.Description = req.Description
	if req.Active != nil {
		structure.Active = *req.Active
	}
	if err := sh.structureService.Update(c.Request.Context(), structure); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, structure)
}

func (sh *StructureHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sh.structureService.Delete(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (sh *StructureHandler) AddItem(c *gin.Context) {
	structureID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req structureItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	item, err := sh.structureService.AddItem(c.Request.Context(), structureID, services.StructureItemInput{
		RawMaterialID: req.RawMaterialID,
		QtyPerBatchG:  req.QtyPerBatchG,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, item)
}

func (sh *StructureHandler) RemoveItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	if err := sh.structureService.RemoveItem(c.Request.Context(), itemID); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
