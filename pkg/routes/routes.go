package routes

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Layout selects the page chrome a route is rendered in.
type Layout string

const (
	LayoutDefault Layout = "default"
	LayoutBlank   Layout = "blank"
)

// Route is one named panel screen.
type Route struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Protected bool   `json:"protected"`
	Layout    Layout `json:"layout"`
}

const (
	Index = "Index"
	Login = "Login"

	CategoryList = "CategoryList"
	CategoryAdd  = "CategoryAdd"
	CategoryEdit = "CategoryEdit"

	TagList = "TagList"
	TagAdd  = "TagAdd"
	TagEdit = "TagEdit"

	BrandList = "BrandList"
	BrandAdd  = "BrandAdd"
	BrandEdit = "BrandEdit"

	ProductList            = "ProductList"
	ProductAdd             = "ProductAdd"
	ProductEdit            = "ProductEdit"
	ProductDiscountHistory = "ProductDiscountHistory"

	ProductDiscountList = "ProductDiscountList"
	ProductDiscountAdd  = "ProductDiscountAdd"
	ProductDiscountEdit = "ProductDiscountEdit"

	SliderList = "SliderList"
	SliderAdd  = "SliderAdd"
	SliderEdit = "SliderEdit"

	AnnouncementList = "AnnouncementList"
	AnnouncementAdd  = "AnnouncementAdd"
	AnnouncementEdit = "AnnouncementEdit"

	SettingsList = "SettingsList"
	SettingsAdd  = "SettingsAdd"
	SettingsEdit = "SettingsEdit"
)

var (
	ErrUnknownRoute = errors.New("unknown route")
	ErrMissingParam = errors.New("missing route parameter")

	paramPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)
)

var table = []Route{
	{Name: Index, Path: "/", Protected: true, Layout: LayoutDefault},
	{Name: Login, Path: "/giris-yap", Protected: false, Layout: LayoutBlank},

	{Name: CategoryList, Path: "/kategoriler", Protected: true, Layout: LayoutDefault},
	{Name: CategoryAdd, Path: "/kategori-ekle", Protected: true, Layout: LayoutDefault},
	{Name: CategoryEdit, Path: "/kategori-duzenle/:id", Protected: true, Layout: LayoutDefault},

	{Name: TagList, Path: "/etiketler", Protected: true, Layout: LayoutDefault},
	{Name: TagAdd, Path: "/etiket-ekle", Protected: true, Layout: LayoutDefault},
	{Name: TagEdit, Path: "/etiket-duzenle/:id", Protected: true, Layout: LayoutDefault},

	{Name: BrandList, Path: "/markalar", Protected: true, Layout: LayoutDefault},
	{Name: BrandAdd, Path: "/marka-ekle", Protected: true, Layout: LayoutDefault},
	{Name: BrandEdit, Path: "/marka-duzenle/:id", Protected: true, Layout: LayoutDefault},

	{Name: ProductList, Path: "/urunler", Protected: true, Layout: LayoutDefault},
	{Name: ProductAdd, Path: "/urun-ekle", Protected: true, Layout: LayoutDefault},
	{Name: ProductEdit, Path: "/urun-duzenle/:id", Protected: true, Layout: LayoutDefault},
	{Name: ProductDiscountHistory, Path: "/urunler/:id/indirim-gecmisi", Protected: true, Layout: LayoutDefault},

	{Name: ProductDiscountList, Path: "/indirimler", Protected: true, Layout: LayoutDefault},
	{Name: ProductDiscountAdd, Path: "/indirim-ekle", Protected: true, Layout: LayoutDefault},
	{Name: ProductDiscountEdit, Path: "/indirim-duzenle/:id", Protected: true, Layout: LayoutDefault},

	{Name: SliderList, Path: "/sliderlar", Protected: true, Layout: LayoutDefault},
	{Name: SliderAdd, Path: "/slider-ekle", Protected: true, Layout: LayoutDefault},
	{Name: SliderEdit, Path: "/slider-duzenle/:id", Protected: true, Layout: LayoutDefault},

	{Name: AnnouncementList, Path: "/duyurular", Protected: true, Layout: LayoutDefault},
	{Name: AnnouncementAdd, Path: "/duyuru-ekle", Protected: true, Layout: LayoutDefault},
	{Name: AnnouncementEdit, Path: "/duyuru-duzenle/:id", Protected: true, Layout: LayoutDefault},

	{Name: SettingsList, Path: "/ayarlar", Protected: true, Layout: LayoutDefault},
	{Name: SettingsAdd, Path: "/ayar-ekle", Protected: true, Layout: LayoutDefault},
	{Name: SettingsEdit, Path: "/ayar-duzenle/:id", Protected: true, Layout: LayoutDefault},
}

var byName = func() map[string]Route {
	m := make(map[string]Route, len(table))
	for _, r := range table {
		m[r.Name] = r
	}
	return m
}()

// All returns the registry in declaration order.
func All() []Route {
	out := make([]Route, len(table))
	copy(out, table)
	return out
}

// Lookup finds a route by name.
func Lookup(name string) (Route, bool) {
	r, ok := byName[name]
	return r, ok
}

// Resolve returns the concrete path for name with every :param substituted.
func Resolve(name string, params map[string]any) (string, error) {
	r, ok := byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	path := r.Path
	for key, value := range params {
		path = strings.ReplaceAll(path, ":"+key, url.PathEscape(fmt.Sprint(value)))
	}
	if missing := paramPattern.FindString(path); missing != "" {
		return "", fmt.Errorf("%w %s for route %q", ErrMissingParam, missing, name)
	}
	return path, nil
}

// MustResolve is Resolve for static call sites; it panics on an unknown name.
func MustResolve(name string, params map[string]any) string {
	path, err := Resolve(name, params)
	if err != nil {
		panic(err)
	}
	return path
}

// Pattern converts a registry path to a chi pattern (":id" → "{id}").
func Pattern(path string) string {
	return paramPattern.ReplaceAllString(path, "{$1}")
}

// StorefrontProductURL builds the public storefront link for a product slug.
func StorefrontProductURL(frontendURL, slug string) string {
	base := strings.TrimRight(strings.TrimSpace(frontendURL), "/")
	return base + "/urun/" + url.PathEscape(strings.TrimSpace(slug))
}

// StorageURL prefixes a persisted image path with the storage base URL.
func StorageURL(storageBase, imagePath string) string {
	imagePath = strings.TrimSpace(imagePath)
	if imagePath == "" {
		return ""
	}
	if strings.HasPrefix(imagePath, "http://") || strings.HasPrefix(imagePath, "https://") {
		return imagePath
	}
	return strings.TrimRight(strings.TrimSpace(storageBase), "/") + "/" + strings.TrimLeft(imagePath, "/")
}
