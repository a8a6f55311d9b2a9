package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kermes/kermes-panel/api/controllers"
	"github.com/kermes/kermes-panel/api/middleware"
	announcement "github.com/kermes/kermes-panel/internal/announcements"
	"github.com/kermes/kermes-panel/internal/auth"
	brand "github.com/kermes/kermes-panel/internal/brands"
	category "github.com/kermes/kermes-panel/internal/categories"
	discount "github.com/kermes/kermes-panel/internal/discounts"
	"github.com/kermes/kermes-panel/internal/listview"
	product "github.com/kermes/kermes-panel/internal/products"
	"github.com/kermes/kermes-panel/internal/resource"
	"github.com/kermes/kermes-panel/internal/session"
	setting "github.com/kermes/kermes-panel/internal/settings"
	slider "github.com/kermes/kermes-panel/internal/sliders"
	tag "github.com/kermes/kermes-panel/internal/tags"
	"github.com/kermes/kermes-panel/pkg/config"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/redis"
	panelroutes "github.com/kermes/kermes-panel/pkg/routes"
)

// Extra panel endpoints that are not screens of their own.
const (
	LogoutPath        = "/cikis-yap"
	ProductFilterPath = "/urunler/filtreler"
	DiscountTargets   = "/indirimler/hedef-ara"
)

// Services bundles the domain services the panel routes call.
type Services struct {
	Auth          auth.Service
	Categories    category.Service
	Tags          tag.Service
	Brands        brand.Service
	Products      product.Service
	Discounts     discount.Service
	Sliders       slider.Service
	Announcements announcement.Service
	Settings      setting.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	sessions *session.Manager,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	readiness := map[string]controllers.Pinger{}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	deps := controllers.FormDeps{
		StorageURL:      cfg.Frontend.StorageURL,
		FrontendURL:     cfg.Frontend.URL,
		MaxImageBytes:   cfg.Upload.MaxImageBytes(),
		MaxImages:       cfg.Upload.MaxImages,
		MaxRequestBytes: cfg.Upload.MaxImageBytes() * int64(cfg.Upload.MaxImages+1),
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(middleware.CookieOptions{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.SecureCookie,
		}, logg))

		login := pattern(panelroutes.Login)
		r.Get(login, controllers.LoginScreen(sessions, logg))
		if redisClient != nil {
			throttle := middleware.NewLoginThrottle(cfg.Login.Window, cfg.Login.IPLimit, cfg.Login.EmailLimit)
			r.With(middleware.LoginRateLimit(throttle, redisClient, logg)).Post(login, controllers.Login(svcs.Auth, logg))
		} else {
			r.Post(login, controllers.Login(svcs.Auth, logg))
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin(sessions, logg))

			r.Get(pattern(panelroutes.Index), controllers.Index())
			r.Post(LogoutPath, controllers.Logout(svcs.Auth, logg))

			mountCategories(r, svcs.Categories, logg)
			mountTags(r, svcs.Tags, logg)
			mountBrands(r, svcs.Brands, logg)
			mountProducts(r, svcs.Products, deps, logg)
			mountDiscounts(r, svcs.Discounts, logg)
			mountSliders(r, svcs.Sliders, deps, logg)
			mountAnnouncements(r, svcs.Announcements, deps, logg)
			mountSettings(r, svcs.Settings, deps, logg)
		})
	})

	return r
}

func pattern(name string) string {
	route, ok := panelroutes.Lookup(name)
	if !ok {
		panic("routes: unknown route " + name)
	}
	return panelroutes.Pattern(route.Path)
}

// mountForms serves the add and edit screens and accepts their submits.
func mountForms(r chi.Router, add, edit string, screen, save http.HandlerFunc) {
	for _, p := range []string{pattern(add), pattern(edit)} {
		r.Get(p, screen)
		r.Post(p, save)
	}
	r.Put(pattern(edit), save)
}

// mountList serves the list screen and its delete action under the list path.
func mountList[T resource.Record[T]](r chi.Router, list string, source listview.Lister[T], deleter listview.Deleter, fallback resource.Sort, logg *logger.Logger) {
	base := pattern(list)
	r.Get(base, controllers.ListScreen[T](source, fallback, logg))
	r.Delete(base+"/{id}", controllers.DeleteRecord[T](source, deleter, fallback, logg))
}

func mountCategories(r chi.Router, svc category.Service, logg *logger.Logger) {
	mountList[category.Category](r, panelroutes.CategoryList, svc, svc, resource.DefaultSort(), logg)
	r.Put(pattern(panelroutes.CategoryList)+"/{id}/change-status", controllers.ChangeStatus[category.Category](svc, logg))
	mountForms(r, panelroutes.CategoryAdd, panelroutes.CategoryEdit,
		controllers.CategoryFormScreen(svc, logg), controllers.CategorySave(svc, logg))
}

func mountTags(r chi.Router, svc tag.Service, logg *logger.Logger) {
	mountList[tag.Tag](r, panelroutes.TagList, svc, svc, resource.DefaultSort(), logg)
	r.Put(pattern(panelroutes.TagList)+"/{id}/change-status", controllers.ChangeStatus[tag.Tag](svc, logg))
	mountForms(r, panelroutes.TagAdd, panelroutes.TagEdit,
		controllers.TagFormScreen(svc, logg), controllers.TagSave(svc, logg))
}

func mountBrands(r chi.Router, svc brand.Service, logg *logger.Logger) {
	mountList[brand.Brand](r, panelroutes.BrandList, svc, svc, resource.DefaultSort(), logg)
	r.Put(pattern(panelroutes.BrandList)+"/{id}/change-status", controllers.ChangeStatus[brand.Brand](svc, logg))
	mountForms(r, panelroutes.BrandAdd, panelroutes.BrandEdit,
		controllers.BrandFormScreen(svc, logg), controllers.BrandSave(svc, logg))
}

func mountProducts(r chi.Router, svc product.Service, deps controllers.FormDeps, logg *logger.Logger) {
	mountList[product.Product](r, panelroutes.ProductList, svc, svc, resource.DefaultSort(), logg)
	r.Put(pattern(panelroutes.ProductList)+"/{id}/change-status", controllers.ChangeStatus[product.Product](svc, logg))
	r.Get(ProductFilterPath, controllers.ProductFilters(svc, logg))
	r.Get(pattern(panelroutes.ProductDiscountHistory), controllers.ProductHistory(svc, logg))
	mountForms(r, panelroutes.ProductAdd, panelroutes.ProductEdit,
		controllers.ProductFormScreen(svc, deps, logg), controllers.ProductSave(svc, deps, logg))
}

func mountDiscounts(r chi.Router, svc discount.Service, logg *logger.Logger) {
	mountList[discount.Discount](r, panelroutes.ProductDiscountList, svc, svc, resource.DefaultSort(), logg)
	r.Put(pattern(panelroutes.ProductDiscountList)+"/{id}/change-status", controllers.ChangeStatus[discount.Discount](svc, logg))
	r.Get(DiscountTargets, controllers.DiscountSearchTargets(svc, logg))
	mountForms(r, panelroutes.ProductDiscountAdd, panelroutes.ProductDiscountEdit,
		controllers.DiscountFormScreen(svc, logg), controllers.DiscountSave(svc, logg))
}

func mountSliders(r chi.Router, svc slider.Service, deps controllers.FormDeps, logg *logger.Logger) {
	mountList[slider.Slider](r, panelroutes.SliderList, svc, svc, resource.DefaultSort(), logg)
	r.Put(pattern(panelroutes.SliderList)+"/{id}/change-status", controllers.ChangeStatus[slider.Slider](svc, logg))
	mountForms(r, panelroutes.SliderAdd, panelroutes.SliderEdit,
		controllers.SliderFormScreen(svc, deps, logg), controllers.SliderSave(svc, deps, logg))
}

func mountAnnouncements(r chi.Router, svc announcement.Service, deps controllers.FormDeps, logg *logger.Logger) {
	mountList[announcement.Announcement](r, panelroutes.AnnouncementList, svc, svc, announcement.DefaultSort(), logg)
	r.Put(pattern(panelroutes.AnnouncementList)+"/{id}/change-status", controllers.ChangeStatus[announcement.Announcement](svc, logg))
	mountForms(r, panelroutes.AnnouncementAdd, panelroutes.AnnouncementEdit,
		controllers.AnnouncementFormScreen(svc, deps, logg), controllers.AnnouncementSave(svc, deps, logg))
}

func mountSettings(r chi.Router, svc setting.Service, deps controllers.FormDeps, logg *logger.Logger) {
	mountList[setting.Setting](r, panelroutes.SettingsList, svc, svc, resource.DefaultSort(), logg)
	mountForms(r, panelroutes.SettingsAdd, panelroutes.SettingsEdit,
		controllers.SettingFormScreen(svc, deps, logg), controllers.SettingSave(svc, deps, logg))
}
