package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	stdmultipart "mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kermes/kermes-panel/internal/auth"
	brand "github.com/kermes/kermes-panel/internal/brands"
	discount "github.com/kermes/kermes-panel/internal/discounts"
	"github.com/kermes/kermes-panel/internal/form"
	product "github.com/kermes/kermes-panel/internal/products"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/internal/resource/resourcetest"
	setting "github.com/kermes/kermes-panel/internal/settings"
	slider "github.com/kermes/kermes-panel/internal/sliders"
	"github.com/kermes/kermes-panel/pkg/config"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 0x49, 0x48, 0x44, 0x52}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

func serve(t *testing.T, method, pattern string, h http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, method, target, payload string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := stdmultipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("payload", payload))
	for name, data := range files {
		field, filename, _ := strings.Cut(name, ":")
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestListScreenPassesQueryAndReturnsView(t *testing.T) {
	api := resourcetest.New().Respond(http.MethodGet, brand.BasePath,
		`{"data":{"data":[{"id":4,"name":"Kermes","is_active":1}],"total":21}}`)
	svc := brand.NewService(api, logger.Nop())

	rec, env := serve(t, http.MethodGet, "/markalar", ListScreen[brand.Brand](svc, resource.DefaultSort(), logger.Nop()),
		httptest.NewRequest(http.MethodGet, "/markalar?page=2&limit=20&sort_by=name&sort_order=desc&hidden[]=slug", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	q := resourcetest.Query(api.Last(t))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "name", q.Get("sort_by"))
	assert.Equal(t, "desc", q.Get("sort_order"))

	var view struct {
		State         string        `json:"state"`
		Rows          []brand.Brand `json:"rows"`
		Total         int           `json:"total"`
		PageCount     int           `json:"page_count"`
		HiddenColumns []string      `json:"hidden_columns"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "success", view.State)
	assert.Equal(t, 21, view.Total)
	assert.Equal(t, 2, view.PageCount)
	assert.Equal(t, []string{"slug"}, view.HiddenColumns)
	require.Len(t, view.Rows, 1)
}

func TestListScreenSurfacesUpstreamFailure(t *testing.T) {
	api := resourcetest.New().Fail(http.MethodGet, brand.BasePath, pkgerrors.New(pkgerrors.CodeUpstream, "Sunucu hatası"))
	svc := brand.NewService(api, logger.Nop())

	rec, env := serve(t, http.MethodGet, "/markalar", ListScreen[brand.Brand](svc, resource.DefaultSort(), logger.Nop()),
		httptest.NewRequest(http.MethodGet, "/markalar", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Sunucu hatası", env.Error.Message)
}

func TestChangeStatusReturnsPatch(t *testing.T) {
	api := resourcetest.New().Respond(http.MethodPut, "admin/brand/3/change-status", `{"data":{"id":3,"is_active":0}}`)
	svc := brand.NewService(api, logger.Nop())

	rec, env := serve(t, http.MethodPut, "/markalar/{id}/change-status", ChangeStatus[brand.Brand](svc, logger.Nop()),
		httptest.NewRequest(http.MethodPut, "/markalar/3/change-status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var patch StatusChanged
	require.NoError(t, json.Unmarshal(env.Data, &patch))
	assert.Equal(t, StatusChanged{ID: 3, IsActive: false}, patch)
	assert.Len(t, api.Requests(), 1)
}

func TestDeleteRecordReloadsPage(t *testing.T) {
	api := resourcetest.New().
		Respond(http.MethodDelete, "admin/brand/3", "").
		Respond(http.MethodGet, brand.BasePath, `{"data":{"data":[{"id":4,"name":"Kalan"}],"total":1}}`)
	svc := brand.NewService(api, logger.Nop())

	rec, env := serve(t, http.MethodDelete, "/markalar/{id}", DeleteRecord[brand.Brand](svc, svc, resource.DefaultSort(), logger.Nop()),
		httptest.NewRequest(http.MethodDelete, "/markalar/3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	reqs := api.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodDelete, reqs[0].Method)
	assert.Equal(t, http.MethodGet, reqs[1].Method)

	var view struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 1, view.Total)
}

func TestBrandSaveCreatesAndUpdates(t *testing.T) {
	api := resourcetest.New().
		Respond(http.MethodPost, brand.BasePath, `{"data":{"id":9,"name":"Kermes"}}`).
		Respond(http.MethodPut, "admin/brand/9", `{"data":{"id":9,"name":"Kermes Gıda"}}`)
	svc := brand.NewService(api, logger.Nop())
	h := BrandSave(svc, logger.Nop())

	rec, env := serve(t, http.MethodPost, "/marka-ekle", h, jsonRequest(http.MethodPost, "/marka-ekle", `{"name":"Kermes","slug":""}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var saved Saved
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "Marka başarıyla oluşturuldu!", saved.Message)
	assert.Equal(t, "/markalar", saved.Redirect)
	body, ok := api.Last(t).Body.(*brand.Form)
	require.True(t, ok)
	assert.Equal(t, "kermes", body.Slug)

	rec, env = serve(t, http.MethodPost, "/marka-duzenle/{id}", h, jsonRequest(http.MethodPost, "/marka-duzenle/9", `{"name":"Kermes Gıda","slug":"kermes-gida"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "Marka başarıyla güncellendi! ID: 9", saved.Message)
	assert.Equal(t, http.MethodPut, api.Last(t).Method)
}

func TestBrandSaveReportsFieldErrors(t *testing.T) {
	api := resourcetest.New()
	rec, env := serve(t, http.MethodPost, "/marka-ekle", BrandSave(brand.NewService(api, logger.Nop()), logger.Nop()),
		jsonRequest(http.MethodPost, "/marka-ekle", `{"name":"  "}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"Marka adı zorunludur"}, env.Error.Details["name"])
	assert.Equal(t, form.SummaryTitle+"\nMarka adı zorunludur", env.Error.Message)
	assert.Empty(t, api.Requests())
}

func TestBrandSaveSummarizesServerFieldErrors(t *testing.T) {
	api := resourcetest.New().Fail(http.MethodPost, brand.BasePath,
		pkgerrors.Validation("The given data was invalid.", pkgerrors.FieldErrors{"slug": {"Bu slug zaten kullanılıyor."}}))
	rec, env := serve(t, http.MethodPost, "/marka-ekle", BrandSave(brand.NewService(api, logger.Nop()), logger.Nop()),
		jsonRequest(http.MethodPost, "/marka-ekle", `{"name":"Kermes"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"Bu slug zaten kullanılıyor."}, env.Error.Details["slug"])
	assert.Equal(t, form.SummaryTitle+"\nBu slug zaten kullanılıyor.", env.Error.Message)
}

func TestBrandFormScreenSeedsEdit(t *testing.T) {
	api := resourcetest.New().Respond(http.MethodGet, "admin/brand/5", `{"data":{"id":5,"name":"Kermes","slug":"kermes","is_active":1}}`)
	rec, env := serve(t, http.MethodGet, "/marka-duzenle/{id}", BrandFormScreen(brand.NewService(api, logger.Nop()), logger.Nop()),
		httptest.NewRequest(http.MethodGet, "/marka-duzenle/5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var screen struct {
		Mode string `json:"mode"`
		Form struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"form"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &screen))
	assert.Equal(t, "edit", screen.Mode)
	assert.Equal(t, "kermes", screen.Form.Slug)
}

func TestEditRouteRejectsBadID(t *testing.T) {
	api := resourcetest.New()
	rec, _ := serve(t, http.MethodGet, "/marka-duzenle/{id}", BrandFormScreen(brand.NewService(api, logger.Nop()), logger.Nop()),
		httptest.NewRequest(http.MethodGet, "/marka-duzenle/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, api.Requests())
}

func TestSliderSaveRejectsUnsupportedFile(t *testing.T) {
	api := resourcetest.New()
	deps := FormDeps{MaxImageBytes: 1 << 20}
	req := multipartRequest(t, http.MethodPost, "/slider-ekle", `{"row_1_text":"Yaz"}`,
		map[string][]byte{"path:notes.txt": []byte("plain text")})

	rec, env := serve(t, http.MethodPost, "/slider-ekle", SliderSave(slider.NewService(api, logger.Nop()), deps, logger.Nop()), req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, env.Error.Details[BackgroundField])
	assert.Empty(t, api.Requests())
}

func TestSliderSaveUploadsBackground(t *testing.T) {
	api := resourcetest.New().Respond(http.MethodPost, slider.BasePath, `{"data":{"id":2}}`)
	deps := FormDeps{MaxImageBytes: 1 << 20}
	req := multipartRequest(t, http.MethodPost, "/slider-ekle", `{"row_1_text":"Yaz","button_target":"_blank"}`,
		map[string][]byte{"path:bg.png": pngHeader})

	rec, env := serve(t, http.MethodPost, "/slider-ekle", SliderSave(slider.NewService(api, logger.Nop()), deps, logger.Nop()), req)
	require.Equal(t, http.StatusOK, rec.Code, string(env.Data))

	form := resourcetest.Form(t, api.Last(t))
	assert.Equal(t, "Yaz", form.Value["row_1_text"][0])
	assert.Equal(t, pngHeader, resourcetest.FileBytes(t, form, "path"))
}

func TestProductSaveAddsUploadedImages(t *testing.T) {
	api := resourcetest.New().
		Respond(http.MethodPost, product.BasePath, `{"data":{"id":30,"name":"Rize Çayı"}}`)
	deps := FormDeps{MaxImageBytes: 1 << 20, MaxImages: 5}
	payload := `{"name":"Rize Çayı","price":"120.50","stock":4,"category_ids":[{"value":1,"label":"Çay"}],"featured_image":"b.png"}`
	req := multipartRequest(t, http.MethodPost, "/urun-ekle", payload, map[string][]byte{
		"images[]:a.png": pngHeader,
		"images[]:b.png": pngHeader,
	})

	rec, env := serve(t, http.MethodPost, "/urun-ekle", ProductSave(product.NewService(api, logger.Nop()), deps, logger.Nop()), req)
	require.Equal(t, http.StatusOK, rec.Code, env.Error.Message)

	var saved Saved
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "Ürün başarıyla oluşturuldu!", saved.Message)

	require.Len(t, api.Requests(), 1, "create must not load the form options")
	form := resourcetest.Form(t, api.Last(t))
	assert.Equal(t, "rize-cayi", form.Value["slug"][0])
	assert.Len(t, form.File["images[]"], 2)
}

func TestProductCreateWithoutImageMakesNoRequest(t *testing.T) {
	api := resourcetest.New()
	deps := FormDeps{MaxImageBytes: 1 << 20, MaxImages: 5}
	rec, env := serve(t, http.MethodPost, "/urun-ekle", ProductSave(product.NewService(api, logger.Nop()), deps, logger.Nop()),
		jsonRequest(http.MethodPost, "/urun-ekle", `{"name":"Rize Çayı","price":"10","category_ids":[{"value":1,"label":"Çay"}]}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"En az bir görsel yüklemelisiniz"}, env.Error.Details[ImagesField])
	assert.Empty(t, api.Requests())
}

func TestProductSaveRejectsUnsupportedImage(t *testing.T) {
	api := resourcetest.New()
	deps := FormDeps{MaxImageBytes: 1 << 20, MaxImages: 5}
	req := multipartRequest(t, http.MethodPost, "/urun-ekle", `{"name":"Rize Çayı","price":"10","category_ids":[{"value":1,"label":"Çay"}]}`,
		map[string][]byte{"images[]:notes.txt": []byte("plain text")})

	rec, env := serve(t, http.MethodPost, "/urun-ekle", ProductSave(product.NewService(api, logger.Nop()), deps, logger.Nop()), req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, env.Error.Details[ImagesField], 1)
	assert.Contains(t, env.Error.Details[ImagesField][0], "notes.txt")
	assert.True(t, strings.HasPrefix(env.Error.Message, form.SummaryTitle))
	assert.Empty(t, api.Requests())
}

func TestDiscountSearchTargets(t *testing.T) {
	api := resourcetest.New().Respond(http.MethodGet, "admin/product-discount/search-targets", `[{"id":5,"name":"Kermes Lokum"}]`)
	h := DiscountSearchTargets(discount.NewService(api, logger.Nop()), logger.Nop())

	rec, env := serve(t, http.MethodGet, "/indirimler/search-targets", h,
		httptest.NewRequest(http.MethodGet, "/indirimler/search-targets?type=product&q=lok", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"value":5,"label":"Kermes Lokum"}]`, string(env.Data))

	rec, _ = serve(t, http.MethodGet, "/indirimler/search-targets", h,
		httptest.NewRequest(http.MethodGet, "/indirimler/search-targets?type=planet&q=x", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDiscountEditChangingTargetTypeDropsStoredTargets(t *testing.T) {
	api := resourcetest.New().
		Respond(http.MethodGet, "admin/product-discount/3", `{"data":{"id":3,"name":"Bahar","target_type":"product","targets":[{"value":7,"label":"Lokum"}],"discount_type":"percentage","discount_amount":"10"}}`).
		Respond(http.MethodPost, "admin/product-discount/3", `{"data":{"id":3}}`)
	h := DiscountSave(discount.NewService(api, logger.Nop()), logger.Nop())

	rec, env := serve(t, http.MethodPost, "/indirim-duzenle/{id}", h,
		jsonRequest(http.MethodPost, "/indirim-duzenle/3", `{"target_type":"brand","discount_start":"2025-04-01T09:30"}`))
	require.Equal(t, http.StatusOK, rec.Code, env.Error.Message)

	form := resourcetest.Form(t, api.Last(t))
	assert.Equal(t, "brand", form.Value["target_type"][0])
	assert.Equal(t, "[]", form.Value["targets"][0])
	assert.Equal(t, "Bahar", form.Value["name"][0])
	assert.Equal(t, "2025-04-01 09:30", form.Value["discount_start"][0])
}

func TestDiscountEditKeepsTargetsOfSameType(t *testing.T) {
	api := resourcetest.New().
		Respond(http.MethodGet, "admin/product-discount/3", `{"data":{"id":3,"name":"Bahar","target_type":"brand","targets":[{"value":7,"label":"Kermes"}],"discount_type":"fixed","discount_amount":"5"}}`).
		Respond(http.MethodPost, "admin/product-discount/3", `{"data":{"id":3}}`)
	h := DiscountSave(discount.NewService(api, logger.Nop()), logger.Nop())

	rec, _ := serve(t, http.MethodPost, "/indirim-duzenle/{id}", h,
		jsonRequest(http.MethodPost, "/indirim-duzenle/3", `{"target_type":"brand","targets":[{"value":7,"label":"Kermes"},{"value":8,"label":"Lokumcu"}]}`))
	require.Equal(t, http.StatusOK, rec.Code)

	form := resourcetest.Form(t, api.Last(t))
	assert.Equal(t, "[7,8]", form.Value["targets"][0])
}

func TestSettingSaveKeepsKeyOnEdit(t *testing.T) {
	api := resourcetest.New().
		Respond(http.MethodGet, "admin/settings/7", `{"data":{"id":7,"key":"site_title","value":"Kermes"}}`).
		Respond(http.MethodPost, "admin/settings/7", `{"data":{"id":7,"key":"site_title","value":"Kermes Panel"}}`)
	h := SettingSave(setting.NewService(api, logger.Nop()), FormDeps{MaxImageBytes: 1 << 20}, logger.Nop())

	rec, _ := serve(t, http.MethodPost, "/ayar-duzenle/{id}", h,
		jsonRequest(http.MethodPost, "/ayar-duzenle/7", `{"key":"renamed","value":"Kermes Panel"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	form := resourcetest.Form(t, api.Last(t))
	assert.Equal(t, "site_title", form.Value["key"][0])
	assert.Equal(t, "Kermes Panel", form.Value["value"][0])
	assert.Equal(t, "PUT", form.Value["_method"][0])
}

type stubAuthService struct {
	resp *auth.LoginResponse
	err  error
}

func (s stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.resp, s.err
}

func (s stubAuthService) Logout(context.Context) error { return s.err }

func TestLoginRedirectsToIndex(t *testing.T) {
	h := Login(stubAuthService{resp: &auth.LoginResponse{User: json.RawMessage(`{"id":1}`)}}, logger.Nop())
	rec, env := serve(t, http.MethodPost, "/giris-yap", h,
		jsonRequest(http.MethodPost, "/giris-yap", `{"email":"admin@kermes.test","password":"secret"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":{"id":1},"redirect":"/"}`, string(env.Data))
}

func TestLoginValidatesBody(t *testing.T) {
	h := Login(stubAuthService{}, logger.Nop())
	rec, env := serve(t, http.MethodPost, "/giris-yap", h, jsonRequest(http.MethodPost, "/giris-yap", `{"email":"nope"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, env.Error.Details["email"])
	assert.NotEmpty(t, env.Error.Details["password"])
}

func TestLoginFailureMessage(t *testing.T) {
	h := Login(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, auth.LoginFailedMessage)}, logger.Nop())
	rec, env := serve(t, http.MethodPost, "/giris-yap", h,
		jsonRequest(http.MethodPost, "/giris-yap", `{"email":"admin@kermes.test","password":"x"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, auth.LoginFailedMessage, env.Error.Message)
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	ok := HealthReady(cfg, logger.Nop(), map[string]Pinger{"redis": pingerFunc(func(context.Context) error { return nil })})
	rec, _ := serve(t, http.MethodGet, "/health/ready", ok, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-Kermes-Env"))

	down := HealthReady(cfg, logger.Nop(), map[string]Pinger{"redis": pingerFunc(func(context.Context) error { return errors.New("dial tcp") })})
	rec, env := serve(t, http.MethodGet, "/health/ready", down, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "redis unavailable", env.Error.Message)
}
