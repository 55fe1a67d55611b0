package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/tozikala/backend/api/transport"
	"github.com/tozikala/backend/domain"
	"github.com/tozikala/backend/internal/events"
	"github.com/tozikala/backend/internal/infrastructure/kvstore"
	boltRepo "github.com/tozikala/backend/repository/bolt"
	catalogUC "github.com/tozikala/backend/usecase/catalog"
	verificationUC "github.com/tozikala/backend/usecase/verification"
)

type env struct {
	verification *VerificationHandler
	catalog      *CatalogHandler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "handler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	records := boltRepo.NewRecordRepository(store, nil)
	products := boltRepo.NewProductRepository(store, nil)
	bus := events.NewBus(nil)

	return &env{
		verification: NewVerificationHandler(verificationUC.New(records, products, bus, nil), nil, nil),
		catalog:      NewCatalogHandler(catalogUC.New(products, bus, nil), nil, nil),
	}
}

func post(body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBodyString(body)
	return ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) transport.Envelope {
	t.Helper()
	var envelope transport.Envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	return envelope
}

func TestCheckHandlerInvalidID(t *testing.T) {
	e := newEnv(t)

	ctx := post(`{"national_id":"1234567890"}`)
	e.verification.Check(ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	envelope := decode(t, ctx)
	assert.Equal(t, "success", envelope.Status)

	data, _ := envelope.Data.(map[string]interface{})
	assert.Equal(t, string(domain.StatusInvalidID), data["status"])
}

func TestCheckHandlerMalformedBody(t *testing.T) {
	e := newEnv(t)

	ctx := post(`{`)
	e.verification.Check(ctx)

	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "error", decode(t, ctx).Status)
}

func TestWorkflowOverHTTP(t *testing.T) {
	e := newEnv(t)

	ctx := post(`{"national_id":"0499370899"}`)
	e.verification.Check(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = post(`{"full_name":"علی محمدی"}`)
	e.verification.SetFullName(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = post(`{"product_id":"p1"}`)
	e.verification.Toggle(ctx)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = post("")
	e.verification.Commit(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())

	envelope := decode(t, ctx)
	batch, _ := envelope.Data.([]interface{})
	require.Len(t, batch, 1)

	// committing again without a session is rejected
	ctx = post("")
	e.verification.Commit(ctx)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestToggleUnknownProductOverHTTP(t *testing.T) {
	e := newEnv(t)

	ctx := post(`{"national_id":"0499370899"}`)
	e.verification.Check(ctx)

	ctx = post(`{"product_id":"ghost"}`)
	e.verification.Toggle(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())
}

func TestCatalogHandlerCRUD(t *testing.T) {
	e := newEnv(t)

	ctx := post(`{"name":"روغن"}`)
	e.catalog.Create(ctx)
	require.Equal(t, http.StatusCreated, ctx.Response.StatusCode())
	created, _ := decode(t, ctx).Data.(map[string]interface{})
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	ctx = post(`{"name":"روغن مایع"}`)
	ctx.SetUserValue("id", id)
	e.catalog.Update(ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	ctx = post(`{"name":"x"}`)
	ctx.SetUserValue("id", "missing")
	e.catalog.Update(ctx)
	assert.Equal(t, http.StatusNotFound, ctx.Response.StatusCode())

	ctx = &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodDelete)
	ctx.SetUserValue("id", id)
	e.catalog.Delete(ctx)
	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
}
