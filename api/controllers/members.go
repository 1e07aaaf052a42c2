package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/srobertsphd/alano-club/api/responses"
	"github.com/srobertsphd/alano-club/api/validators"
	"github.com/srobertsphd/alano-club/internal/members"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
	"github.com/srobertsphd/alano-club/pkg/logger"
)

const dateLayout = "2006-01-02"

type createMemberRequest struct {
	MemberNumber   *int    `json:"member_number"`
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	Address        string  `json:"address"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ZipCode        string  `json:"zip_code"`
	MemberTypeID   string  `json:"member_type_id" validate:"required,uuid"`
	JoinedOn       string  `json:"joined_on" validate:"omitempty,datetime=2006-01-02"`
	ExpirationDate string  `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          string  `json:"notes"`
}

type updateMemberRequest struct {
	MemberNumber   *int    `json:"member_number"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
	Address        *string `json:"address"`
	City           *string `json:"city"`
	State          *string `json:"state"`
	ZipCode        *string `json:"zip_code"`
	MemberTypeID   *string `json:"member_type_id" validate:"omitempty,uuid"`
	ExpirationDate *string `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          *string `json:"notes"`
}

func CreateMember(svc *members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMemberRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		memberTypeID, err := uuid.Parse(req.MemberTypeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid member type id"))
			return
		}

		input := members.CreateMemberInput{
			MemberNumber: req.MemberNumber,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Phone:        req.Phone,
			Address:      req.Address,
			City:         req.City,
			State:        req.State,
			ZipCode:      req.ZipCode,
			MemberTypeID: memberTypeID,
			Notes:        req.Notes,
		}
		if req.JoinedOn != "" {
			joined, _ := time.Parse(dateLayout, req.JoinedOn)
			input.JoinedOn = &joined
		}
		if req.ExpirationDate != "" {
			expiration, _ := time.Parse(dateLayout, req.ExpirationDate)
			input.ExpirationDate = &expiration
		}

		member, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, member)
	}
}

func GetMember(svc *members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		member, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

func UpdateMember(svc *members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateMemberRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := members.UpdateMemberInput{
			MemberNumber: req.MemberNumber,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			Phone:        req.Phone,
			Address:      req.Address,
			City:         req.City,
			State:        req.State,
			ZipCode:      req.ZipCode,
			Notes:        req.Notes,
		}
		if req.MemberTypeID != nil {
			memberTypeID, err := uuid.Parse(*req.MemberTypeID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid member type id"))
				return
			}
			input.MemberTypeID = &memberTypeID
		}
		if req.ExpirationDate != nil && *req.ExpirationDate != "" {
			expiration, _ := time.Parse(dateLayout, *req.ExpirationDate)
			input.ExpirationDate = &expiration
		}

		member, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// SearchMembers handles the main lookup surface: ?q= is a member number or a
// name fragment, ?status= filters by lifecycle state.
func SearchMembers(svc *members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.Search(r.Context(), members.SearchInput{
			Query:  r.URL.Query().Get("q"),
			Status: r.URL.Query().Get("status"),
			Limit:  limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

func DeactivateMember(svc *members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		member, err := svc.Deactivate(r.Context(), id, time.Now().UTC())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

func MarkMemberDeceased(svc *members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		member, err := svc.MarkDeceased(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// ListExpiringMembers returns active members lapsing before ?before=, which
// defaults to the first day of next month.
func ListExpiringMembers(svc *members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		before, err := validators.ParseQueryDate(r, "before", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cutoff := time.Now().UTC().AddDate(0, 1, 0)
		if before != nil {
			cutoff = *before
		}

		found, err := svc.ListExpiring(r.Context(), cutoff)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

func MemberStats(svc *members.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}
