package user

import (
	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	"github.com/frahmantamala/finance-ops/internal/core/common/validation"
	coreUser "github.com/frahmantamala/finance-ops/internal/core/user"
)

type CreateUserDTO struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Department  string  `json:"department"`
	Grade       int     `json:"grade"`
	IsAdmin     bool    `json:"is_admin"`
	Role        string  `json:"role"`
	Designation *string `json:"designation"`
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	v.Field("department", d.Department).OneOf(errors.ErrCodeInvalidDepartment, coreUser.Departments...)
	if d.Designation != nil {
		v.Field("designation", *d.Designation).MaxLength(100)
	}
	return v.Validate()
}

// UpdateUserDTO is a partial update; nil fields are left untouched.
type UpdateUserDTO struct {
	Name        *string `json:"name"`
	Department  *string `json:"department"`
	Grade       *int    `json:"grade"`
	Designation *string `json:"designation"`
	IsAdmin     *bool   `json:"is_admin"`
	Role        *string `json:"role"`
}

// ChangesRole reports whether the body touches the caller's authority.
func (d UpdateUserDTO) ChangesRole() bool {
	return d.IsAdmin != nil || d.Role != nil || d.Grade != nil
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", *d.Name).Required().MaxLength(100)
	}
	if d.Department != nil {
		v.Field("department", *d.Department).Required().OneOf(errors.ErrCodeInvalidDepartment, coreUser.Departments...)
	}
	if d.Designation != nil {
		v.Field("designation", *d.Designation).MaxLength(100)
	}
	if d.Grade != nil {
		v.Field("grade", *d.Grade).Custom(validGrade)
	}
	return v.Validate()
}

func validGrade(value interface{}) *errors.AppError {
	if g, ok := value.(int); ok && !access.Grade(g).Valid() {
		return errors.NewValidationFieldError("grade", "grade must be 1, 2 or 3", errors.ErrCodeInvalidGrade)
	}
	return nil
}

// ChangeRoleDTO switches an account between admin and user. Demoting an
// admin who has no department needs one supplied here.
type ChangeRoleDTO struct {
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
}

type ProfilePictureDTO struct {
	ProfilePictureURL string `json:"profile_picture_url"`
}

func (d ProfilePictureDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("profile_picture_url", d.ProfilePictureURL).Required().HTTPURL().MaxLength(2048)
	return v.Validate()
}

type UserListResponse struct {
	Users  []*Profile `json:"users"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}
