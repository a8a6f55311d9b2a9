package product

import (
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/internal/media"
	"github.com/kermes/kermes-panel/pkg/multipart"
	"github.com/kermes/kermes-panel/pkg/types"
	"github.com/shopspring/decimal"
)

// DefaultStockAlertLimit seeds new products.
const DefaultStockAlertLimit = 10

var messages = form.Messages{
	"name":         "Ürün adı zorunludur",
	"slug":         "Slug alanı zorunludur",
	"category_ids": "En az bir kategori seçilmelidir",
	"stock":        "Stok değeri 0 veya daha büyük olmalıdır",
	"price":        "Fiyat 0'dan büyük olmalıdır",
	"images":       "En az bir görsel yüklemelisiniz",
}

// Form is the state of the product create and edit screens.
type Form struct {
	ID int64 `json:"id,omitempty"`
	form.SlugTracker
	BrandID          int64           `json:"brand_id"`
	ShortDescription string          `json:"short_description"`
	LongDescription  string          `json:"long_description"`
	Stock            int             `json:"stock" validate:"gte=0"`
	StockAlertLimit  int             `json:"stock_alert_limit" validate:"gte=0"`
	IsActive         types.Flag      `json:"is_active"`
	Price            decimal.Decimal `json:"price"`
	PriceDiscount    decimal.Decimal `json:"price_discount"`
	CategoryIDs      []types.Option  `json:"category_ids" validate:"min=1"`
	TagIDs           []types.Option  `json:"tag_ids"`
	Keywords         string          `json:"keywords"`
	SEODescription   string          `json:"seo_description"`
	Author           string          `json:"author"`

	Images *form.ImageSet `json:"-"`
}

// NewForm returns an empty create form.
func NewForm(policy media.Policy, opts ...form.ImageSetOption) *Form {
	return &Form{
		StockAlertLimit: DefaultStockAlertLimit,
		IsActive:        true,
		CategoryIDs:     []types.Option{},
		TagIDs:          []types.Option{},
		Images:          form.NewImageSet(policy, opts...),
	}
}

// FormFromProduct seeds an edit form. Price fields come from the last price entry and
// image paths are prefixed with storageURL.
func FormFromProduct(p Product, storageURL string, policy media.Policy, opts ...form.ImageSetOption) *Form {
	f := NewForm(policy, opts...)
	f.ID = p.ID
	f.SlugTracker = form.NewSlugTracker(p.Name, p.Slug)
	if p.BrandID != nil {
		f.BrandID = *p.BrandID
	} else if p.Brand != nil {
		f.BrandID = p.Brand.ID
	}
	f.ShortDescription = p.ShortDescription
	f.LongDescription = p.LongDescription
	f.Stock = p.Stock
	if p.StockAlertLimit > 0 {
		f.StockAlertLimit = p.StockAlertLimit
	}
	f.IsActive = p.IsActive
	if price, ok := p.CurrentPrice(); ok {
		f.Price = price.Price
		f.PriceDiscount = price.PriceDiscount
	}
	f.CategoryIDs = types.OptionsFrom(p.Categories)
	f.TagIDs = types.OptionsFrom(p.Tags)
	f.Keywords = p.Keywords
	f.SEODescription = p.SEODescription
	f.Author = p.Author
	f.Images.Seed(storageURL, p.Images)
	return f
}

// Validate runs the local checks that must pass before anything is sent.
func (f *Form) Validate() form.Errors {
	errs := form.Validate(f, messages)
	if !f.Price.IsPositive() {
		errs.Set("price", messages["price"])
	}
	if f.Images == nil || f.Images.Len() == 0 {
		errs.Set("images", messages["images"])
	}
	return errs
}

func (f *Form) MultipartSchema() multipart.Schema {
	return multipart.Schema{
		"category_ids":    multipart.JSON,
		"tag_ids":         multipart.JSON,
		"images":          multipart.Files,
		"existing_images": multipart.List,
	}
}

func (f *Form) MultipartValues() map[string]any {
	values := map[string]any{
		"name":              f.Name,
		"slug":              f.Slug,
		"short_description": f.ShortDescription,
		"long_description":  f.LongDescription,
		"stock":             f.Stock,
		"stock_alert_limit": f.StockAlertLimit,
		"is_active":         f.IsActive,
		"price":             f.Price,
		"price_discount":    f.PriceDiscount,
		"keywords":          f.Keywords,
		"seo_description":   f.SEODescription,
		"author":            f.Author,
		"category_ids":      types.OptionValues(f.CategoryIDs),
		"tag_ids":           types.OptionValues(f.TagIDs),
	}
	if f.BrandID > 0 {
		values["brand_id"] = f.BrandID
	}
	if f.Images != nil {
		rec := f.Images.Reconcile()
		values["images"] = rec.New
		values["existing_images"] = rec.Existing
		if rec.Featured != "" {
			values["featured_image"] = rec.Featured
		}
	}
	return values
}
