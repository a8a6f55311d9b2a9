package controllers

import (
	"net/http"

	"github.com/kermes/kermes-panel/api/responses"
	"github.com/kermes/kermes-panel/api/validators"
	announcement "github.com/kermes/kermes-panel/internal/announcements"
	"github.com/kermes/kermes-panel/internal/form"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/routes"
)

// AnnouncementImageField is the multipart field of the announcement image.
const AnnouncementImageField = "image"

func announcementForm(r *http.Request, svc announcement.Service, deps FormDeps, id int64) (*announcement.Form, error) {
	if id == 0 {
		return announcement.NewForm(deps.MaxImageBytes), nil
	}
	a, err := svc.FetchByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return announcement.FormFromAnnouncement(a, deps.StorageURL, deps.MaxImageBytes), nil
}

func AnnouncementFormScreen(svc announcement.Service, deps FormDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f, err := announcementForm(r, svc, deps, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, FormScreen{
			Mode:    form.ModeFor(id),
			Form:    f,
			Options: announcement.TypeOptions(),
			Extra:   fileExtra{Preview: f.Image.Preview()},
		})
	}
}

func AnnouncementSave(svc announcement.Service, deps FormDeps, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := editID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f, err := announcementForm(r, svc, deps, id)
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
		if err := acceptFile(f.Image, sub, AnnouncementImageField); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.Save(r.Context(), f)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, form.Reported(err))
			return
		}
		writeSaved(w, "Duyuru", id, saved, routes.AnnouncementList)
	}
}
