package controllers

import (
	"net/http"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	"github.com/kermes/kermes-panel/internal/form"
	slider "github.com/kermes/kermes-panel/internal/sliders"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
)

// BackgroundField is the multipart field of the slider background.
const BackgroundField = "path"

type fileExtra struct {
	Preview string `json:"preview,omitempty"`
}

func sliderForm(r *http.Request, svc slider.Service, deps FormDeps, id int64) (*slider.Form, error) {
	if id == 0 {
		return slider.NewForm(deps.MaxImageBytes), nil
	}
	s, err := svc.FetchByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return slider.FormFromSlider(s, deps.StorageURL, deps.MaxImageBytes), nil
}

func SliderFormScreen(svc slider.Service, deps FormDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f, err := sliderForm(r, svc, deps, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, FormScreen{Mode: form.ModeFor(id), Form: f, Extra: fileExtra{Preview: f.Background.Preview()}})
	}
}

func SliderSave(svc slider.Service, deps FormDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f, err := sliderForm(r, svc, deps, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sub, err := validators.DecodeSubmission(w, r, f, deps.MaxRequestBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f.ID = id
		if err := acceptFile(f.Background, sub, BackgroundField); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Save(r.Context(), f)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, form.Reported(err))
			return
		}
		writeSaved(w, "Slider", id, saved, routes.SliderList)
	}
}

// acceptFile puts the first upload of field into slot. A rejected file fails under field.
func acceptFile(slot *form.FileSlot, sub validators.Submission, field string) error {
	file, ok := sub.First(field)
	if !ok {
		return nil
	}
	if _, err := slot.Set(file.Name, file.Data); err != nil {
		errs := form.Errors{}
		errs.Set(field, err.Error())
		return errs.AsError()
	}
	return nil
}
