package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/srobertsphd/alano-club/api/responses"
	"github.com/srobertsphd/alano-club/api/validators"
	"github.com/srobertsphd/alano-club/internal/reports"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
	"github.com/srobertsphd/alano-club/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MemberRosterReport streams the roster workbook as a download.
func MemberRosterReport(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", attachment("member_roster", "xlsx"))
		if err := svc.MemberRoster(r.Context(), w); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
	}
}

// PaymentsReport streams the payments workbook for ?from= and ?to= dates.
func PaymentsReport(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if to.Before(*from) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start"))
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", attachment("payments", "xlsx"))
		if err := svc.PaymentsByRange(r.Context(), *from, *to, w); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
	}
}

// MemberDirectoryReport streams the printable PDF directory.
func MemberDirectoryReport(svc *reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", attachment("member_directory", "pdf"))
		if err := svc.MemberDirectory(r.Context(), w); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
	}
}

func attachment(name, ext string) string {
	stamp := time.Now().UTC().Format("20060102")
	return fmt.Sprintf(`attachment; filename="%s_%s.%s"`, name, stamp, ext)
}
