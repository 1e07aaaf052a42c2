package controllers

import (
	"net/http"

	"github.com/srobertsphd/alano-club/api/responses"
	"github.com/srobertsphd/alano-club/api/validators"
	"github.com/srobertsphd/alano-club/internal/friends"
	"github.com/srobertsphd/alano-club/pkg/logger"
)

type createFriendRequest struct {
	Name         string  `json:"name" validate:"required"`
	Relationship string  `json:"relationship"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Notes        string  `json:"notes"`
}

type updateFriendRequest struct {
	Name         *string `json:"name"`
	Relationship *string `json:"relationship"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Notes        *string `json:"notes"`
}

func CreateFriend(svc *friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createFriendRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		friend, err := svc.Create(r.Context(), friends.CreateInput{
			MemberID:     memberID,
			Name:         req.Name,
			Relationship: req.Relationship,
			Phone:        req.Phone,
			Email:        req.Email,
			Notes:        req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, friend)
	}
}

func ListMemberFriends(svc *friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID, err := pathUUID(r, "memberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		found, err := svc.ListByMember(r.Context(), memberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

func UpdateFriend(svc *friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "friendId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateFriendRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		friend, err := svc.Update(r.Context(), id, friends.UpdateInput{
			Name:         req.Name,
			Relationship: req.Relationship,
			Phone:        req.Phone,
			Email:        req.Email,
			Notes:        req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, friend)
	}
}

func DeleteFriend(svc *friends.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "friendId")
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
