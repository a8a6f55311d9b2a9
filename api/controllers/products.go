package controllers

import (
	"context"
	"net/http"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/media"
	product "github.com/kermes/kermes-panel/internal/products"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
	"github.com/kermes/kermes-panel/pkg/types"
	"go.uber.org/multierr"
)

// ImagesField is the multipart field new product images arrive under.
const ImagesField = "images"

type productOptions struct {
	Brands     []types.Option `json:"brands"`
	Categories []types.Option `json:"categories"`
	Tags       []types.Option `json:"tags"`
}

func productOptionsFrom(o product.Options) productOptions {
	return productOptions{
		Brands:     o.BrandSelect(),
		Categories: types.OptionsFrom(o.Categories),
		Tags:       types.OptionsFrom(o.Tags),
	}
}

type productExtra struct {
	Images        []form.Image `json:"images"`
	StorefrontURL string       `json:"storefront_url,omitempty"`
}

// productSubmission is the product form plus the image edits of one submit.
// FeaturedImage names an image by client id or by the filename of a new upload.
type productSubmission struct {
	*product.Form
	RemovedImages []string `json:"removed_images"`
	FeaturedImage string   `json:"featured_image"`
}

func productPolicy(deps FormDeps) media.Policy {
	return media.NewPolicy(media.KindProductImage, deps.MaxImageBytes)
}

// productForm loads the edit form for id, or an empty one with the create options when id is 0.
func productForm(ctx context.Context, svc product.Service, deps FormDeps, id int64) (*product.Form, productOptions, string, error) {
	if id == 0 {
		opts, err := svc.CreateData(ctx)
		if err != nil {
			return nil, productOptions{}, "", err
		}
		return emptyProductForm(deps), productOptionsFrom(opts), "", nil
	}
	data, err := svc.EditData(ctx, id)
	if err != nil {
		return nil, productOptions{}, "", err
	}
	f := product.FormFromProduct(data.Product, deps.StorageURL, productPolicy(deps), form.WithMaxFiles(deps.MaxImages))
	return f, productOptionsFrom(data.Options), data.Product.Slug, nil
}

func emptyProductForm(deps FormDeps) *product.Form {
	return product.NewForm(productPolicy(deps), form.WithMaxFiles(deps.MaxImages))
}

// savedProductForm is the starting point of a submit. Creates start empty without any
// request; edits start from the stored product so kept images survive.
func savedProductForm(ctx context.Context, svc product.Service, deps FormDeps, id int64) (*product.Form, error) {
	if id == 0 {
		return emptyProductForm(deps), nil
	}
	f, _, _, err := productForm(ctx, svc, deps, id)
	return f, err
}

func ProductFormScreen(svc product.Service, deps FormDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f, opts, slug, err := productForm(r.Context(), svc, deps, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		extra := productExtra{Images: f.Images.Images()}
		if slug != "" && deps.FrontendURL != "" {
			extra.StorefrontURL = routes.StorefrontProductURL(deps.FrontendURL, slug)
		}
		responses.WriteSuccess(w, FormScreen{Mode: form.ModeFor(id), Form: f, Options: opts, Extra: extra})
	}
}

// ProductSave accepts a JSON or multipart submit. removed_images drops kept images by client id.
func ProductSave(svc product.Service, deps FormDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f, err := savedProductForm(r.Context(), svc, deps, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub := productSubmission{Form: f}
		files, err := validators.DecodeSubmission(w, r, &sub, deps.MaxRequestBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f.ID = id
		f.Normalize()

		if err := applyImageEdits(f.Images, sub, files.Files[ImagesField]); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Save(r.Context(), f)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, form.Reported(err))
			return
		}
		writeSaved(w, "Ürün", id, saved, routes.ProductList)
	}
}

func applyImageEdits(images *form.ImageSet, sub productSubmission, uploads []form.File) error {
	for _, clientID := range sub.RemovedImages {
		images.Remove(clientID)
	}

	added, rejected := images.AddMany(uploads)
	if sub.FeaturedImage != "" {
		for _, img := range added {
			if img.Path == sub.FeaturedImage {
				images.SetFeatured(img.ClientID)
			}
		}
		images.SetFeatured(sub.FeaturedImage)
	}
	if rejected == nil {
		return nil
	}

	var msgs []string
	for _, err := range multierr.Errors(rejected) {
		msgs = append(msgs, err.Error())
	}
	errs := form.Errors{}
	errs.Set(ImagesField, msgs...)
	return errs.AsError()
}

// ProductFilters serves the option lists of the product list filters.
func ProductFilters(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := svc.FiltersData(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, productOptions{
			Brands:     types.OptionsFrom(opts.Brands),
			Categories: types.OptionsFrom(opts.Categories),
			Tags:       types.OptionsFrom(opts.Tags),
		})
	}
}

// ProductHistory serves the price and discount history of one product.
func ProductHistory(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.History(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
