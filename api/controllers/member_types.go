package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/srobertsphd/alano-club/api/responses"
	"github.com/srobertsphd/alano-club/api/validators"
	"github.com/srobertsphd/alano-club/internal/membertypes"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
	"github.com/srobertsphd/alano-club/pkg/logger"
)

type createMemberTypeRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	Dues           string `json:"dues" validate:"required"`
	CoverageMonths string `json:"coverage_months"`
	AllowsPayments *bool  `json:"allows_payments"`
}

type updateMemberTypeRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Dues           *string `json:"dues"`
	CoverageMonths *string `json:"coverage_months"`
	AllowsPayments *bool   `json:"allows_payments"`
	IsActive       *bool   `json:"is_active"`
}

func CreateMemberType(svc *membertypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMemberTypeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dues, err := decimal.NewFromString(req.Dues)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dues"))
			return
		}
		coverage := decimal.Zero
		if req.CoverageMonths != "" {
			if coverage, err = decimal.NewFromString(req.CoverageMonths); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coverage months"))
				return
			}
		}
		allowsPayments := true
		if req.AllowsPayments != nil {
			allowsPayments = *req.AllowsPayments
		}

		memberType, err := svc.Create(r.Context(), membertypes.CreateInput{
			Name:           req.Name,
			Description:    req.Description,
			Dues:           dues,
			CoverageMonths: coverage,
			AllowsPayments: allowsPayments,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, memberType)
	}
}

func ListMemberTypes(svc *membertypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := r.URL.Query().Get("active") == "true"
		found, err := svc.List(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

func UpdateMemberType(svc *membertypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "memberTypeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateMemberTypeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := membertypes.UpdateInput{
			Name:           req.Name,
			Description:    req.Description,
			AllowsPayments: req.AllowsPayments,
			IsActive:       req.IsActive,
		}
		if req.Dues != nil {
			dues, err := decimal.NewFromString(*req.Dues)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dues"))
				return
			}
			input.Dues = &dues
		}
		if req.CoverageMonths != nil {
			coverage, err := decimal.NewFromString(*req.CoverageMonths)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coverage months"))
				return
			}
			input.CoverageMonths = &coverage
		}

		memberType, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, memberType)
	}
}

func DeleteMemberType(svc *membertypes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "memberTypeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
