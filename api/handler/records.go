package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/pkg/httpcontext"
	statsUC "github.com/tozikala/backend/usecase/stats"
)

type RecordsHandler struct {
	baseHandler
	uc *statsUC.UseCase
}

func NewRecordsHandler(uc *statsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *RecordsHandler {
	return &RecordsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Distribution history, newest first
// @Tags records
// @Router /api/v1/records [get]
func (h *RecordsHandler) History(ctx *fasthttp.RequestCtx) {
	nationalID := string(ctx.QueryArgs().Peek("national_id"))
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 0)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	records, err := h.uc.History(stdCtx, nationalID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if records == nil {
		records = []domain.DistributionRecord{}
	}
	h.respondSuccess(ctx, http.StatusOK, records)
}

// @Summary Dashboard aggregates
// @Tags records
// @Router /api/v1/stats [get]
func (h *RecordsHandler) Stats(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snap, err := h.uc.Snapshot(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, snap)
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
