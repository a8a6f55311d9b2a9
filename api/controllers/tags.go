package controllers

import (
	"net/http"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	"github.com/kermes/kermes-panel/internal/form"
	tag "github.com/kermes/kermes-panel/internal/tags"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
)

func TagFormScreen(svc tag.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		f := tag.NewForm()
		if id > 0 {
			t, err := svc.FetchByID(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			f = tag.FormFromTag(t)
		}
		responses.WriteSuccess(w, FormScreen{Mode: form.ModeFor(id), Form: f})
	}
}

func TagSave(svc tag.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		f := tag.NewForm()
		if err := validators.DecodeJSON(r, f); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f.ID = id
		f.Normalize()

		saved, err := svc.Save(r.Context(), f)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, form.Reported(err))
			return
		}
		writeSaved(w, "Etiket", id, saved, routes.TagList)
	}
}
