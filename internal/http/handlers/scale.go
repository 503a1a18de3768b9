package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/http/response"
	"github.com/ampolabs/batchweigh-backend/internal/services"
)

type ScaleHandler struct {
	catalogService services.CatalogService
}

func NewScaleHandler(catalogService services.CatalogService) *ScaleHandler {
	return &ScaleHandler{catalogService: catalogService}
}

type scaleRequest struct {
	Name              string           `json:"name"`
	Identifier        string           `json:"identifier"`
	ConnectionType    string           `json:"connection_type"`
	IPAddress         string           `json:"ip_address"`
	Port              int              `json:"port"`
	SerialPort        string           `json:"serial_port"`
	Location          string           `json:"location"`
	MaxCapacityKg     *decimal.Decimal `json:"max_capacity_kg"`
	DivisionKg        *decimal.Decimal `json:"division_kg"`
	Protocol          string           `json:"protocol"`
	LastCalibrationAt string           `json:"last_calibration_at"`
	Active            *bool            `json:"active"`
}

func (req *scaleRequest) apply(scale *types.Scale) error {
	scale.Name = req.Name
	scale.Identifier = req.Identifier
	scale.ConnectionType = req.ConnectionType
	scale.IPAddress = req.IPAddress
	scale.Port = req.Port
	scale.SerialPort = req.SerialPort
	scale.Location = req.Location
	scale.Protocol = req.Protocol
	if req.MaxCapacityKg != nil {
		scale.MaxCapacityKg = decimal.NewNullDecimal(*req.MaxCapacityKg)
	}
	if req.DivisionKg != nil {
		scale.DivisionKg = decimal.NewNullDecimal(*req.DivisionKg)
	}
	if req.LastCalibrationAt != "" {
		t, err := time.Parse("2006-01-02", req.LastCalibrationAt)
		if err != nil {
			return fmt.Errorf("last_calibration_at must be YYYY-MM-DD: %w", err)
		}
		d := datatypes.Date(t)
		scale.LastCalibrationAt = &d
	}
	if req.Active != nil {
		scale.Active = *req.Active
	}
	return nil
}

func (sh *ScaleHandler) Create(c *gin.Context) {
	var req scaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	var scale types.Scale
	if err := req.apply(&scale); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := sh.catalogService.CreateScale(c.Request.Context(), &scale)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondCreated(c, created)
}

func (sh *ScaleHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	scale, err := sh.catalogService.GetScale(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, scale)
}

func (sh *ScaleHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	scales, err := sh.catalogService.ListScales(c.Request.Context(), activeOnly)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, scales)
}

func (sh *ScaleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req scaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	scale, err := sh.catalogService.GetScale(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	if err := req.apply(scale); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := sh.catalogService.UpdateScale(c.Request.Context(), scale); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, scale)
}

func (sh *ScaleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := sh.catalogService.DeleteScale(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
