package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ampolabs/batchweigh-backend/internal/http/response"
	"github.com/ampolabs/batchweigh-backend/internal/services"
)

type WeighingHandler struct {
	weighingService services.WeighingService
}

func NewWeighingHandler(weighingService services.WeighingService) *WeighingHandler {
	return &WeighingHandler{weighingService: weighingService}
}

func (wh *WeighingHandler) Record(c *gin.Context) {
	var req struct {
		OrderID      uuid.UUID       `json:"order_id"`
		ItemID       uuid.UUID       `json:"item_id"`
		Operator     string          `json:"operator"`
		TareKg       decimal.Decimal `json:"tare_kg"`
		NetKg        decimal.Decimal `json:"net_kg"`
		ScaleID      *uuid.UUID      `json:"scale_id"`
		LotTag       string          `json:"lot_tag"`
		InternalCode string          `json:"internal_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	weighing, err := wh.weighingService.Record(c.Request.Context(), services.WeighingInput{
		OrderID:      req.OrderID,
		ItemID:       req.ItemID,
		Operator:     req.Operator,
		TareKg:       req.TareKg,
		NetKg:        req.NetKg,
		ScaleID:      req.ScaleID,
		LotTag:       req.LotTag,
		InternalCode: req.InternalCode,
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, weighing)
}

func (wh *WeighingHandler) ListByOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	weighings, err := wh.weighingService.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, weighings)
}

func (wh *WeighingHandler) ListByItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	weighings, err := wh.weighingService.ListByItem(c.Request.Context(), itemID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, weighings)
}
