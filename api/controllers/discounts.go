package controllers

import (
	"context"
	"net/http"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	discount "github.com/kermes/kermes-panel/internal/discounts"
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/pkg/enums"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
	"github.com/kermes/kermes-panel/pkg/types"
)

type discountOptions struct {
	Targets       []discount.Choice `json:"target_types"`
	DiscountTypes []discount.Choice `json:"discount_types"`
	Categories    []types.Option    `json:"categories"`
	Tags          []types.Option    `json:"tags"`
	Brands        []types.Option    `json:"brands"`
}

func DiscountFormScreen(svc discount.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		f := discount.NewForm()
		var opts discount.Options
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
				d, err := svc.FetchByID(ctx, id)
				if err != nil {
					return err
				}
				f = discount.FormFromDiscount(d)
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
			Options: discountOptions{
				Targets:       discount.TargetChoices(),
				DiscountTypes: discount.DiscountTypeChoices(),
				Categories:    types.OptionsFrom(opts.Categories),
				Tags:          types.OptionsFrom(opts.Tags),
				Brands:        types.OptionsFrom(opts.Brands),
			},
		})
	}
}

// discountSubmission separates the target fields so a changed target type can drop the
// targets of the previous type before the submitted ones apply.
type discountSubmission struct {
	*discount.Form
	TargetType *enums.TargetType `json:"target_type"`
	Targets    *[]types.Option   `json:"targets"`
}

// DiscountSave starts edits from the stored rule. Omitted fields keep their stored values.
func DiscountSave(svc discount.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		f := discount.NewForm()
		if id != 0 {
			d, err := svc.FetchByID(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			f = discount.FormFromDiscount(d)
		}

		sub := discountSubmission{Form: f}
		if err := validators.DecodeJSON(r, &sub); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		applyTargets(f, sub)
		f.ID = id
		f.NormalizeDates()

		saved, err := svc.Save(r.Context(), f)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, form.Reported(err))
			return
		}
		writeSaved(w, "İndirim", id, saved, routes.ProductDiscountList)
	}
}

func applyTargets(f *discount.Form, sub discountSubmission) {
	if sub.TargetType != nil && *sub.TargetType != f.TargetType {
		f.SetTargetType(*sub.TargetType)
	}
	if sub.Targets != nil {
		f.Targets = *sub.Targets
		if f.Targets == nil {
			f.Targets = []types.Option{}
		}
	}
}

// DiscountSearchTargets looks up targets of ?type= by ?q=.
func DiscountSearchTargets(svc discount.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := enums.ParseTargetType(r.URL.Query().Get("type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("Geçersiz hedef tipi.", pkgerrors.FieldErrors{
				"type": {"Geçersiz hedef tipi."},
			}))
			return
		}
		options, err := svc.SearchTargets(r.Context(), target, r.URL.Query().Get("q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if options == nil {
			options = []types.Option{}
		}
		responses.WriteSuccess(w, options)
	}
}
