package controllers

import (
	"context"
	"net/http"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	category "github.com/kermes/kermes-panel/internal/categories"
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
	"github.com/kermes/kermes-panel/pkg/types"
)

type categoryOptions struct {
	Parents []types.Option `json:"parents"`
	Tags    []types.Option `json:"tags"`
}

// CategoryFormScreen serves the add and edit screens with the parent and tag choices.
func CategoryFormScreen(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		f := category.NewForm()
		var opts category.Options
		err = form.LoadAll(r.Context(),
			func(ctx context.Context) error {
				var err error
				opts, err = svc.CreateData(ctx)
				return err
			},
			func(ctx context.Context) error {
				if id == 0 {
					return nil
				}
				c, err := svc.FetchByID(ctx, id)
				if err != nil {
					return err
				}
				f = category.FormFromCategory(c)
				return nil
			},
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, FormScreen{
			Mode: form.ModeFor(id),
			Form: f,
			Options: categoryOptions{
				Parents: opts.ParentSelect(id),
				Tags:    types.OptionsFrom(opts.Tags),
			},
		})
	}
}

func CategorySave(svc category.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		f := category.NewForm()
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
		writeSaved(w, "Kategori", id, saved, routes.CategoryList)
	}
}
