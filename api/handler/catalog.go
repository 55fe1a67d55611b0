package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/tozikala/backend/api/transport"
	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/pkg/httpcontext"
	catalogUC "github.com/tozikala/backend/usecase/catalog"
)

type CatalogHandler struct {
	baseHandler
	uc *catalogUC.UseCase
}

func NewCatalogHandler(uc *catalogUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List products
// @Tags catalog
// @Router /api/v1/products [get]
func (h *CatalogHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	products, err := h.uc.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	h.respondSuccess(ctx, http.StatusOK, products)
}

// @Summary Create product
// @Tags catalog
// @Router /api/v1/products [post]
func (h *CatalogHandler) Create(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseProduct(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, req.Name)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Rename product
// @Tags catalog
// @Router /api/v1/products/{id} [put]
func (h *CatalogHandler) Update(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	req, ok := h.parseProduct(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Rename(stdCtx, id, req.Name); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"id": id, "name": req.Name})
}

// @Summary Delete product
// @Tags catalog
// @Router /api/v1/products/{id} [delete]
func (h *CatalogHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing product id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *CatalogHandler) parseProduct(ctx *fasthttp.RequestCtx) (*transport.ProductRequest, bool) {
	var req transport.ProductRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return nil, false
	}
	return &req, true
}
