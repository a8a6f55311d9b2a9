package category

import "github.com/kermes/kermes-panel/pkg/types"

// Category is a product category. Parents are one level deep.
type Category struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	Description      string         `json:"description"`
	ParentCategoryID *int64         `json:"parent_category_id,omitempty"`
	Parent           *types.IDName  `json:"parent,omitempty"`
	Tags             []types.IDName `json:"tags,omitempty"`
	IsActive         types.Flag     `json:"is_active"`
	Keywords         string         `json:"keywords"`
	SEODescription   string         `json:"seo_description"`
	Author           string         `json:"author"`
	CreatedAt        string         `json:"formatted_created_at,omitempty"`
}

func (c Category) RecordID() int64 { return c.ID }

func (c Category) WithActive(active types.Flag) Category {
	c.IsActive = active
	return c
}

// Options feed the parent and tag selects of the category form.
type Options struct {
	Categories []types.IDName `json:"categories"`
	Tags       []types.IDName `json:"tags"`
}

// ParentPlaceholder is the empty choice of the parent select.
const ParentPlaceholder = "Üst Kategori"

// ParentSelect lists the possible parents headed by the empty choice, leaving out self.
func (o Options) ParentSelect(self int64) []types.Option {
	out := []types.Option{{Value: 0, Label: ParentPlaceholder}}
	for _, c := range o.Categories {
		if c.ID == self {
			continue
		}
		out = append(out, c.AsOption())
	}
	return out
}
