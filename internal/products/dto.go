package product

import (
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is one product row as the admin API returns it.
type Product struct {
	ID               int64                `json:"id"`
	Name             string               `json:"name"`
	Slug             string               `json:"slug"`
	ShortDescription string               `json:"short_description"`
	LongDescription  string               `json:"long_description"`
	Keywords         string               `json:"keywords"`
	SEODescription   string               `json:"seo_description"`
	Author           string               `json:"author"`
	Stock            int                  `json:"stock"`
	StockAlertLimit  int                  `json:"stock_alert_limit"`
	IsActive         types.Flag           `json:"is_active"`
	BrandID          *int64               `json:"brand_id,omitempty"`
	Brand            *types.IDName        `json:"brand,omitempty"`
	Categories       []types.IDName       `json:"categories"`
	Tags             []types.IDName       `json:"tags"`
	Prices           []Price              `json:"prices,omitempty"`
	LatestPrice      *Price               `json:"latest_price,omitempty"`
	FinalPrice       decimal.NullDecimal  `json:"final_price"`
	Images           []form.ExistingImage `json:"images,omitempty"`
	CreatedAt        string               `json:"formatted_created_at,omitempty"`
}

func (p Product) RecordID() int64 { return p.ID }

func (p Product) WithActive(active types.Flag) Product {
	p.IsActive = active
	return p
}

// CurrentPrice is the last entry of the price list, falling back to latest_price.
func (p Product) CurrentPrice() (Price, bool) {
	if n := len(p.Prices); n > 0 {
		return p.Prices[n-1], true
	}
	if p.LatestPrice != nil {
		return *p.LatestPrice, true
	}
	return Price{}, false
}

// Price is one entry of a product's price history.
type Price struct {
	ID            int64           `json:"id,omitempty"`
	Price         decimal.Decimal `json:"price"`
	PriceDiscount decimal.Decimal `json:"price_discount"`
}

// Options are the select lists of the product screens.
type Options struct {
	Tags       []types.IDName `json:"tags"`
	Categories []types.IDName `json:"categories"`
	Brands     []types.IDName `json:"brands"`
}

// BrandPlaceholder is the empty choice of the brand select.
const BrandPlaceholder = "Marka seçiniz"

// BrandSelect returns the brand options headed by the empty choice.
func (o Options) BrandSelect() []types.Option {
	out := []types.Option{{Value: 0, Label: BrandPlaceholder}}
	return append(out, types.OptionsFrom(o.Brands)...)
}

// EditData is the edit screen bundle: the record plus every option list.
type EditData struct {
	Product Product `json:"product"`
	Options
}

// Filters are the product list filters. Option slices are flattened to ids before sending.
type Filters struct {
	Search           string         `json:"search,omitempty"`
	Brands           []types.Option `json:"brands,omitempty"`
	Categories       []types.Option `json:"categories,omitempty"`
	Tags             []types.Option `json:"tags,omitempty"`
	MinPrice         string         `json:"min_price,omitempty"`
	MaxPrice         string         `json:"max_price,omitempty"`
	MinPriceDiscount string         `json:"min_price_discount,omitempty"`
	MaxPriceDiscount string         `json:"max_price_discount,omitempty"`
}

// Map returns the filters in the shape the list screen normalizes.
func (f Filters) Map() map[string]any {
	return map[string]any{
		"search":             f.Search,
		"brands":             f.Brands,
		"categories":         f.Categories,
		"tags":               f.Tags,
		"min_price":          f.MinPrice,
		"max_price":          f.MaxPrice,
		"min_price_discount": f.MinPriceDiscount,
		"max_price_discount": f.MaxPriceDiscount,
	}
}

// Columns are the toggleable list columns in display order.
var Columns = []string{
	"id", "name", "slug", "short_description", "long_description", "brand", "categories",
	"tags", "price", "price_discount", "final_price", "is_active", "created_at",
}
