package controllers

import (
	"net/http"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	brand "github.com/kermes/kermes-panel/internal/brands"
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
)

func BrandFormScreen(svc brand.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		f := brand.NewForm()
		if id > 0 {
			b, err := svc.FetchByID(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			f = brand.FormFromBrand(b)
		}
		responses.WriteSuccess(w, FormScreen{Mode: form.ModeFor(id), Form: f})
	}
}

func BrandSave(svc brand.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		f := brand.NewForm()
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
		writeSaved(w, "Marka", id, saved, routes.BrandList)
	}
}
