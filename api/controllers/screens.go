package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/listview"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
)

// FormDeps carries what form screens need to seed and accept uploads.
type FormDeps struct {
	StorageURL    string
	FrontendURL   string
	MaxImageBytes int64
	MaxImages     int
	// MaxRequestBytes caps a whole multipart submission.
	MaxRequestBytes int64
}

// FormScreen is the payload of add and edit screens.
type FormScreen struct {
	Mode    form.Mode `json:"mode"`
	Form    any       `json:"form"`
	Options any       `json:"options,omitempty"`
	Extra   any       `json:"extra,omitempty"`
}

// Saved is returned after a successful create or update.
type Saved struct {
	Record   any    `json:"record"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// StatusChanged is the in-place patch a list applies after a status toggle.
type StatusChanged struct {
	ID       int64  `json:"id"`
	IsActive bool   `json:"is_active"`
	Message  string `json:"message,omitempty"`
}

// ListScreen serves one page of a list screen ordered by fallback unless the query sorts.
// hidden[] query values start those columns hidden.
func ListScreen[T resource.Record[T]](source listview.Lister[T], fallback resource.Sort, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen, err := loadScreen(r, source, fallback, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, screen.View())
	}
}

// ChangeStatus toggles is_active and returns only the patch for the row. Nothing is reloaded.
func ChangeStatus[T resource.Record[T]](svc listview.StatusChanger[T], logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		screen := listview.New[T](nil, listview.WithLogger(logg))
		patch, err := screen.ApplyStatus(r.Context(), svc, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, StatusChanged{ID: patch.ID, IsActive: bool(patch.IsActive), Message: patch.Message})
	}
}

// DeleteRecord removes the record and answers with the reloaded page described by the query.
func DeleteRecord[T resource.Record[T]](source listview.Lister[T], svc listview.Deleter, fallback resource.Sort, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParseListParams(r, fallback)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		screen := listview.New[T](source, listview.WithLogger(logg), listview.WithParams(params), listview.WithHiddenColumns(hiddenColumns(r)...))
		if err := screen.Delete(r.Context(), svc, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, screen.View())
	}
}

func loadScreen[T resource.Record[T]](r *http.Request, source listview.Lister[T], fallback resource.Sort, logg *logger.Logger) (*listview.Screen[T], error) {
	params, err := validators.ParseListParams(r, fallback)
	if err != nil {
		return nil, err
	}
	screen := listview.New[T](source, listview.WithLogger(logg), listview.WithParams(params), listview.WithHiddenColumns(hiddenColumns(r)...))
	if err := screen.Reload(r.Context()); err != nil {
		return nil, err
	}
	return screen, nil
}

func hiddenColumns(r *http.Request) []string {
	var out []string
	for _, raw := range r.URL.Query()["hidden[]"] {
		if col := validators.SanitizeString(raw, 64); col != "" {
			out = append(out, col)
		}
	}
	return out
}

// editID reads the id of an edit route, 0 on add routes.
func editID(r *http.Request) (int64, error) {
	if chi.URLParam(r, "id") == "" {
		return 0, nil
	}
	return validators.ParseIDParam(r, "id")
}

func savedMessage(label string, mode form.Mode, id int64) string {
	if mode == form.ModeEdit {
		return fmt.Sprintf("%s başarıyla güncellendi! ID: %d", label, id)
	}
	return fmt.Sprintf("%s başarıyla oluşturuldu!", label)
}

// writeSaved answers a save. id is the route id, 0 when the record was created.
func writeSaved(w http.ResponseWriter, label string, id int64, record any, listRoute string) {
	responses.WriteSuccess(w, Saved{
		Record:   record,
		Message:  savedMessage(label, form.ModeFor(id), id),
		Redirect: routes.MustResolve(listRoute, nil),
	})
}
