package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ampolabs/batchweigh-backend/internal/pkg/apperrors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAppError maps service errors to HTTP statuses. A tolerance rejection
// carries the allowed band back to the operator so the retry can be corrected.
func RespondAppError(c *gin.Context, err error) {
	var tolErr *apperrors.ToleranceError
	switch {
	case errors.As(err, &tolErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorEnvelope{
			Error: APIError{
				Message: tolErr.Error(),
				Code:    "tolerance_exceeded",
				Details: gin.H{
					"raw_material":  tolErr.RawMaterial,
					"min_allowed_g": tolErr.MinAllowedG.StringFixed(3),
					"max_allowed_g": tolErr.MaxAllowedG.StringFixed(3),
					"weighed_g":     tolErr.WeighedG.StringFixed(3),
					"attempt_g":     tolErr.AttemptG.StringFixed(3),
					"new_total_g":   tolErr.NewTotalG.StringFixed(3),
				},
			},
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrIncoherentReference):
		RespondError(c, http.StatusUnprocessableEntity, "incoherent_reference", err)
	case errors.Is(err, apperrors.ErrToleranceExceeded):
		RespondError(c, http.StatusUnprocessableEntity, "tolerance_exceeded", err)
	case errors.Is(err, apperrors.ErrAlreadyGenerated):
		RespondError(c, http.StatusConflict, "already_generated", err)
	case errors.Is(err, apperrors.ErrReferenced):
		RespondError(c, http.StatusConflict, "referenced", err)
	case errors.Is(err, apperrors.ErrConflict):
		RespondError(c, http.StatusConflict, "conflict", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
