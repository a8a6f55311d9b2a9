package category

import (
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/pkg/types"
)

var messages = form.Messages{
	"name": "Kategori adı zorunludur",
	"slug": "Slug alanı zorunludur",
}

// Form is the category create and edit state. It travels as JSON.
type Form struct {
	ID int64 `json:"-"`
	form.SlugTracker
	ParentCategoryID int64          `json:"parent_category_id,omitempty"`
	Description      string         `json:"description"`
	Tags             []types.Option `json:"tags"`
	IsActive         types.Flag     `json:"is_active"`
	Keywords         string         `json:"keywords"`
	SEODescription   string         `json:"seo_description"`
	Author           string         `json:"author"`
}

func NewForm() *Form {
	return &Form{IsActive: true, Tags: []types.Option{}}
}

func FormFromCategory(c Category) *Form {
	f := &Form{
		ID:             c.ID,
		SlugTracker:    form.NewSlugTracker(c.Name, c.Slug),
		Description:    c.Description,
		Tags:           types.OptionsFrom(c.Tags),
		IsActive:       c.IsActive,
		Keywords:       c.Keywords,
		SEODescription: c.SEODescription,
		Author:         c.Author,
	}
	if c.ParentCategoryID != nil {
		f.ParentCategoryID = *c.ParentCategoryID
	} else if c.Parent != nil {
		f.ParentCategoryID = c.Parent.ID
	}
	return f
}

func (f *Form) Validate() form.Errors {
	errs := form.Validate(f, messages)
	if f.ID > 0 && f.ParentCategoryID == f.ID {
		errs.Set("parent_category_id", "Kategori kendisinin üst kategorisi olamaz")
	}
	return errs
}

type payload struct {
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	ParentCategoryID int64      `json:"parent_category_id,omitempty"`
	Description      string     `json:"description"`
	Tags             []int64    `json:"tags"`
	IsActive         types.Flag `json:"is_active"`
	Keywords         string     `json:"keywords"`
	SEODescription   string     `json:"seo_description"`
	Author           string     `json:"author"`
}

// payload flattens the tag options for the JSON body.
func (f *Form) payload() payload {
	return payload{
		Name:             f.Name,
		Slug:             f.Slug,
		ParentCategoryID: f.ParentCategoryID,
		Description:      f.Description,
		Tags:             types.OptionValues(f.Tags),
		IsActive:         f.IsActive,
		Keywords:         f.Keywords,
		SEODescription:   f.SEODescription,
		Author:           f.Author,
	}
}
