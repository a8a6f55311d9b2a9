package validators

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/enums"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/giris-yap", strings.NewReader(`{"email":"nope"}`))
	var body credentials
	err := DecodeJSONBody(r, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := typed.FieldErrors()
	if fields.First("email") == "" || fields.First("password") != "Bu alan zorunludur." {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","password":"x","admin":true}`))
	var body credentials
	if err := DecodeJSONBody(r, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONAllowsEmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	var body map[string]any
	if err := DecodeJSON(r, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseListParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/urunler?page=3&limit=20&sort_by=name&sort_order=DESC&filter[search]=+kek+&filter[categories][]=1&filter[categories][]=4&hidden=stock", nil)
	params, err := ParseListParams(r, resource.DefaultSort())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params.Page != 3 || params.Limit != 20 || params.Sort.Column != "name" || params.Sort.Direction != enums.SortDesc {
		t.Fatalf("unexpected params %+v", params)
	}
	if params.Filters["search"] != "kek" {
		t.Fatalf("unexpected search filter %v", params.Filters["search"])
	}
	cats, ok := params.Filters["categories"].([]string)
	if !ok || len(cats) != 2 || cats[1] != "4" {
		t.Fatalf("unexpected category filter %v", params.Filters["categories"])
	}
}

func TestParseListParamsDefaultsAndErrors(t *testing.T) {
	params, err := ParseListParams(httptest.NewRequest(http.MethodGet, "/etiketler", nil), resource.DefaultSort())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params.Page != 1 || params.Limit != 10 || params.Sort.Column != "id" || params.Filters != nil {
		t.Fatalf("unexpected defaults %+v", params)
	}

	if _, err := ParseListParams(httptest.NewRequest(http.MethodGet, "/etiketler?page=x", nil), resource.DefaultSort()); err == nil {
		t.Fatal("expected non numeric page to fail")
	}
	if _, err := ParseListParams(httptest.NewRequest(http.MethodGet, "/etiketler?sort_order=up", nil), resource.DefaultSort()); err == nil {
		t.Fatal("expected invalid sort order to fail")
	}

	desc := resource.Sort{Column: "id", Direction: enums.SortDesc}
	params, err = ParseListParams(httptest.NewRequest(http.MethodGet, "/duyurular", nil), desc)
	if err != nil || params.Sort != desc {
		t.Fatalf("expected fallback sort, got %+v err %v", params.Sort, err)
	}
}

func TestParseIDParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/marka-duzenle/12", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "12")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	id, err := ParseIDParam(r, "id")
	if err != nil || id != 12 {
		t.Fatalf("unexpected id %d err %v", id, err)
	}

	rctx.URLParams = chi.RouteParams{}
	rctx.URLParams.Add("id", "abc")
	if _, err := ParseIDParam(r, "id"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDecodeSubmissionMultipart(t *testing.T) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField(PayloadField, `{"title":"Kermes Günü"}`)
	part, _ := mw.CreateFormFile("images[]", "a.png")
	_, _ = part.Write([]byte("png-bytes"))
	part, _ = mw.CreateFormFile("images[]", "b.png")
	_, _ = part.Write([]byte("png-bytes-2"))
	_ = mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/duyuru-ekle", buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	var dest struct {
		Title string `json:"title"`
	}
	sub, err := DecodeSubmission(httptest.NewRecorder(), r, &dest, 0)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Title != "Kermes Günü" {
		t.Fatalf("unexpected payload %+v", dest)
	}
	if len(sub.Files["images"]) != 2 || sub.Files["images"][1].Name != "b.png" {
		t.Fatalf("unexpected files %+v", sub.Files)
	}
	if first, ok := sub.First("images"); !ok || string(first.Data) != "png-bytes" {
		t.Fatalf("unexpected first file %+v", first)
	}
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	if got := SanitizeString("  çay  ", 0); got != "çay" {
		t.Fatalf("unexpected %q", got)
	}
	// ç is two bytes; cutting at 2 must not leave half of it.
	if got := SanitizeString("açb", 2); got != "a" {
		t.Fatalf("unexpected %q", got)
	}
}
