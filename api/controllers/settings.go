package controllers

import (
	"net/http"
	"strings"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	"github.com/kermes/kermes-panel/internal/form"
	setting "github.com/kermes/kermes-panel/internal/settings"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
)

// SettingFileField is the fallback multipart field of logo and favicon uploads.
const SettingFileField = "file"

type settingSubmission struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type settingExtra struct {
	IsFile  bool   `json:"is_file"`
	Preview string `json:"preview,omitempty"`
}

func settingForm(r *http.Request, svc setting.Service, deps FormDeps, id int64) (*setting.Form, error) {
	if id == 0 {
		return setting.NewForm(deps.MaxImageBytes), nil
	}
	s, err := svc.FetchByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return setting.FormFromSetting(s, deps.StorageURL, deps.MaxImageBytes), nil
}

func SettingFormScreen(svc setting.Service, deps FormDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f, err := settingForm(r, svc, deps, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		extra := settingExtra{IsFile: setting.IsFileKey(f.Key)}
		if extra.IsFile {
			extra.Preview = f.File().Preview()
		}
		responses.WriteSuccess(w, FormScreen{Mode: form.ModeFor(id), Form: f, Extra: extra})
	}
}

// SettingSave stores a setting. The key of an existing setting is never changed.
func SettingSave(svc setting.Service, deps FormDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f, err := settingForm(r, svc, deps, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var in settingSubmission
		sub, err := validators.DecodeSubmission(w, r, &in, deps.MaxRequestBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if id == 0 {
			f.SetKey(in.Key)
		}

		if setting.IsFileKey(f.Key) {
			field := strings.TrimSpace(f.Key)
			if _, ok := sub.First(field); !ok {
				field = SettingFileField
			}
			if err := acceptFile(f.File(), sub, field); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		} else {
			f.Value = in.Value
		}

		saved, err := svc.Save(r.Context(), f)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, form.Reported(err))
			return
		}
		writeSaved(w, "Ayar", id, saved, routes.SettingsList)
	}
}
