package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tozikala/backend/api/transport"
	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/pkg/httpcontext"
	verificationUC "github.com/tozikala/backend/usecase/verification"
)

type VerificationHandler struct {
	baseHandler
	uc *verificationUC.UseCase
}

func NewVerificationHandler(uc *verificationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *VerificationHandler {
	return &VerificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Current session state
// @Tags verification
// @Router /api/v1/verification [get]
func (h *VerificationHandler) State(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondSuccess(ctx, http.StatusOK, h.uc.State(stdCtx))
}

// @Summary Check a national id
// @Tags verification
// @Router /api/v1/verification/check [post]
func (h *VerificationHandler) Check(ctx *fasthttp.RequestCtx) {
	var req transport.CheckRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.Check(stdCtx, req.NationalID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, state)
}

// @Summary Toggle a product selection
// @Tags verification
// @Router /api/v1/verification/toggle [post]
func (h *VerificationHandler) Toggle(ctx *fasthttp.RequestCtx) {
	var req transport.ToggleRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.ProductID == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.ToggleProduct(stdCtx, req.ProductID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, state)
}

// @Summary Set the recipient name
// @Tags verification
// @Router /api/v1/verification/name [put]
func (h *VerificationHandler) SetFullName(ctx *fasthttp.RequestCtx) {
	var req transport.FullNameRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state, err := h.uc.SetFullName(stdCtx, req.FullName)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, state)
}

// @Summary Commit the pending batch
// @Tags verification
// @Router /api/v1/verification/commit [post]
func (h *VerificationHandler) Commit(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	batch, err := h.uc.Commit(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, batch)
}

// @Summary Cancel the pending session
// @Tags verification
// @Router /api/v1/verification/cancel [post]
func (h *VerificationHandler) Cancel(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondSuccess(ctx, http.StatusOK, h.uc.Cancel(stdCtx))
}
