package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/finance-ops/internal/core/user"
)

// Profile is the outward view of an account. Credentials never leave the
// service.
type Profile struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Role              string    `json:"role"`
	IsAdmin           bool      `json:"is_admin"`
	Grade             int       `json:"grade,omitempty"`
	Department        string    `json:"department,omitempty"`
	Designation       *string   `json:"designation,omitempty"`
	ProfilePictureURL *string   `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func FromDataModel(u *userDatamodel.User) *Profile {
	role := coreUser.RoleUser
	if u.IsAdmin {
		role = coreUser.RoleAdmin
	}
	return &Profile{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Role:              string(role),
		IsAdmin:           u.IsAdmin,
		Grade:             u.Grade,
		Department:        u.Department,
		Designation:       u.Designation,
		ProfilePictureURL: u.ProfilePictureURL,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}
