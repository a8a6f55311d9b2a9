package category

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kermes/kermes-panel/internal/resource/resourcetest"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/types"
)

func TestSaveSendsJSONWithTagIDs(t *testing.T) {
	api := resourcetest.New().Respond(http.MethodPost, BasePath, `{"data":{"id":4,"name":"Tatlı"}}`)
	svc := NewService(api, nil)

	f := NewForm()
	f.SetName("Tatlı Çeşitleri")
	f.Tags = []types.Option{{Value: 2, Label: "Yeni"}, {Value: 5, Label: "Kampanya"}}

	created, err := svc.Save(context.Background(), f)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if created.ID != 4 {
		t.Fatalf("unexpected category %+v", created)
	}

	raw, err := json.Marshal(api.Last(t).Body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["slug"] != "tatli-cesitleri" || body["is_active"] != true {
		t.Fatalf("unexpected body %v", body)
	}
	tags, _ := body["tags"].([]any)
	if len(tags) != 2 || tags[0] != float64(2) {
		t.Fatalf("unexpected tags %v", body["tags"])
	}
}

func TestSaveUpdateUsesPut(t *testing.T) {
	api := resourcetest.New().Respond(http.MethodPut, "admin/category/7", `{"data":{"id":7}}`)
	svc := NewService(api, nil)

	parent := int64(3)
	f := FormFromCategory(Category{ID: 7, Name: "Kek", Slug: "kek", ParentCategoryID: &parent, IsActive: true})
	if _, err := svc.Save(context.Background(), f); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := api.Last(t).Method; got != http.MethodPut {
		t.Fatalf("expected PUT, got %s", got)
	}
}

func TestSaveRejectsSelfParent(t *testing.T) {
	api := resourcetest.New()
	svc := NewService(api, nil)

	f := FormFromCategory(Category{ID: 7, Name: "Kek", Slug: "kek"})
	f.ParentCategoryID = 7
	_, err := svc.Save(context.Background(), f)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(api.Requests()) != 0 {
		t.Fatalf("expected no request")
	}
}

func TestParentSelectSkipsSelf(t *testing.T) {
	opts := Options{Categories: []types.IDName{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}
	got := opts.ParentSelect(2)
	if len(got) != 2 || got[0].Label != ParentPlaceholder || got[1].Value != 1 {
		t.Fatalf("unexpected parent options %+v", got)
	}
}
