package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/dutyfree-pos/internal/errors"
	service "github.com/aaravmahajanofficial/dutyfree-pos/internal/services"
	"github.com/aaravmahajanofficial/dutyfree-pos/internal/utils/response"
	"github.com/google/uuid"
)

type SettlementHandler struct {
	settlementService service.SettlementService
}

func NewSettlementHandler(settlementService service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// ListWarnings godoc
//	@Summary		List open settlement warnings
//	@Description	Loyalty operations that failed after their sale was recorded, oldest first.
//	@Tags			Settlements
//	@Produce		json
//	@Param			limit	query		int														false	"Maximum entries (default: 20, max: 100)"	minimum(1)	maximum(100)
//	@Success		200		{object}	models.PaginatedResponse{Data=[]models.SettlementWarning}	"Open warnings"
//	@Failure		401		{object}	response.ErrorResponse										"Authentication required"
//	@Failure		500		{object}	response.ErrorResponse										"Internal server error"
//	@Security		BearerAuth
//	@Router			/settlements/warnings [get]
func (h *SettlementHandler) ListWarnings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		warnings, err := h.settlementService.ListOpen(r.Context(), limit)
		if err != nil {
			logger.Error("Failed to list settlement warnings", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, warnings)
	}
}

// RetryWarning godoc
//	@Summary		Retry a failed loyalty operation
//	@Description	Re-issues the wallet deduction or points accrual with the caller's token and resolves the warning on success.
//	@Tags			Settlements
//	@Produce		json
//	@Param			id	path		string						true	"Warning ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.SettlementWarning	"Resolved warning"
//	@Failure		400	{object}	response.ErrorResponse		"Invalid id or already resolved"
//	@Failure		401	{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse		"Warning not found"
//	@Failure		500	{object}	response.ErrorResponse		"Back-office still failing"
//	@Security		BearerAuth
//	@Router			/settlements/warnings/{id}/retry [post]
func (h *SettlementHandler) RetryWarning() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session, logger, ok := requireSession(w, r)
		if !ok {
			return
		}

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			logger.Warn("Invalid settlement warning id", slog.String("error", err.Error()))
			response.Error(w, errors.BadRequestError("Invalid warning ID").WithDetail(err.Error()))
			return
		}

		warning, err := h.settlementService.Retry(r.Context(), session, id)
		if err != nil {
			logger.Error("Settlement retry failed", slog.String("warningId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Settlement warning resolved", slog.String("warningId", id.String()))
		response.Success(w, http.StatusOK, warning)
	}
}
