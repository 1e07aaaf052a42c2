package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/srobertsphd/alano-club/internal/dues"
	"github.com/srobertsphd/alano-club/internal/members"
	"github.com/srobertsphd/alano-club/internal/membertypes"
	"github.com/srobertsphd/alano-club/pkg/db/models"
	"github.com/srobertsphd/alano-club/pkg/enums"
)

// ImportMembers loads member records from a CSV with columns member_number,
// first_name, last_name, email, phone, address, city, state, zip_code,
// member_type, status, joined_on, expiration_date, date_inactivated.
// Member types are resolved by name and must already exist; rows whose
// member_number is already present are duplicates.
func ImportMembers(ctx context.Context, memberRepo members.Repository, typeRepo membertypes.Repository, reader io.Reader) (*Summary, error) {
	typeCache := map[string]*models.MemberType{}

	summary := &Summary{}
	err := forEachRow(reader, summary, func(r row) RowOutcome {
		firstName := r.get("first_name")
		lastName := r.get("last_name")
		if firstName == "" || lastName == "" {
			return failed(r.number, fmt.Errorf("first_name and last_name are required"))
		}

		typeName := r.get("member_type")
		if typeName == "" {
			return failed(r.number, fmt.Errorf("member_type is required"))
		}
		memberType, ok := typeCache[typeName]
		if !ok {
			found, err := typeRepo.FindByName(ctx, typeName)
			if err != nil {
				return failed(r.number, err)
			}
			if found == nil {
				return skipped(r.number, fmt.Errorf("unknown member type %q", typeName))
			}
			typeCache[typeName] = found
			memberType = found
		}

		var memberNumber *int
		if raw := r.get("member_number"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return failed(r.number, fmt.Errorf("member_number: %w", err))
			}
			existing, err := memberRepo.FindByMemberNumber(ctx, parsed)
			if err != nil {
				return failed(r.number, err)
			}
			if existing != nil {
				return RowOutcome{Row: r.number, Action: ActionDuplicate}
			}
			memberNumber = &parsed
		}

		status := enums.MemberStatusActive
		if raw := r.get("status"); raw != "" {
			parsed, err := enums.ParseMemberStatus(raw)
			if err != nil {
				return failed(r.number, err)
			}
			status = parsed
		}

		joinedOn, err := r.date("joined_on")
		if err != nil {
			return failed(r.number, err)
		}
		expiration, err := r.date("expiration_date")
		if err != nil {
			return failed(r.number, err)
		}
		if expiration != nil {
			normalized := dues.EndOfMonth(*expiration)
			expiration = &normalized
		}
		inactivated, err := r.date("date_inactivated")
		if err != nil {
			return failed(r.number, err)
		}
		if status != enums.MemberStatusInactive {
			inactivated = nil
		}

		member := &models.Member{
			MemberNumber:    memberNumber,
			FirstName:       firstName,
			LastName:        lastName,
			Email:           optional(r.get("email")),
			Phone:           optional(r.get("phone")),
			Address:         r.get("address"),
			City:            r.get("city"),
			State:           r.get("state"),
			ZipCode:         r.get("zip_code"),
			MemberTypeID:    memberType.ID,
			Status:          status,
			JoinedOn:        joinedOn,
			ExpirationDate:  expiration,
			DateInactivated: inactivated,
		}
		if err := memberRepo.Create(ctx, member); err != nil {
			return failed(r.number, err)
		}
		return RowOutcome{Row: r.number, Action: ActionCreated}
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
