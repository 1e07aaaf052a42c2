package controllers

import (
	"net/http"

	"github.com/srobertsphd/alano-club/api/responses"
	"github.com/srobertsphd/alano-club/internal/backups"
	"github.com/srobertsphd/alano-club/pkg/logger"
)

// TriggerBackup runs pg_dump on demand and returns the new file's metadata.
func TriggerBackup(svc *backups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := svc.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, file)
	}
}

func ListBackups(svc *backups.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, files)
	}
}
