package user

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/finance-ops/internal"
	"github.com/frahmantamala/finance-ops/internal/access"
	userDatamodel "github.com/frahmantamala/finance-ops/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-ops/internal/core/events"
	coreUser "github.com/frahmantamala/finance-ops/internal/core/user"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	List(ctx context.Context, limit, offset int) ([]*userDatamodel.User, int64, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

type IdentityRevoker interface {
	Revoke(ctx context.Context, externalUID string) error
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo      RepositoryAPI
	revoker   IdentityRevoker
	hasher    PasswordHasher
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, revoker IdentityRevoker, hasher PasswordHasher, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		revoker:   revoker,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Me(ctx context.Context, callerID int64) (*Profile, error) {
	return s.Get(ctx, callerID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Profile, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

func (s *Service) UpdateProfilePicture(ctx context.Context, callerID int64, dto ProfilePictureDTO) (*Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.update(ctx, callerID, map[string]interface{}{"profile_picture_url": dto.ProfilePictureURL}); err != nil {
		return nil, err
	}
	return s.Get(ctx, callerID)
}

func (s *Service) List(ctx context.Context, limit, offset int) (*UserListResponse, error) {
	users, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, errors.NewDependencyError("failed to list users", err)
	}

	profiles := make([]*Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, FromDataModel(u))
	}
	return &UserListResponse{Users: profiles, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*Profile, error) {
	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	isAdmin := dto.IsAdmin
	if dto.Role != "" {
		role, err := coreUser.ParseRole(dto.Role)
		if err != nil {
			return nil, errors.ErrInvalidRole
		}
		isAdmin = role.IsAdmin()
	}

	grade := dto.Grade
	if !isAdmin {
		if grade == 0 {
			grade = int(access.GradeEmployee)
		}
		if err := validGrade(grade); err != nil {
			return nil, err
		}
		if dto.Department == "" {
			return nil, errors.NewValidationFieldError("department", "department is required", errors.ErrCodeInvalidDepartment)
		}
	} else {
		grade = 0
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, errors.NewDependencyError("failed to hash password", err)
	}

	u := &userDatamodel.User{
		Email:        dto.Email,
		Name:         strings.TrimSpace(dto.Name),
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		Grade:        grade,
		Department:   dto.Department,
		Designation:  dto.Designation,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if appErr, ok := errors.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, errors.NewDependencyError("failed to create user", err)
	}

	s.logger.InfoContext(ctx, "user created", "target_user_id", u.ID, "is_admin", u.IsAdmin, "grade", u.Grade)
	return FromDataModel(u), nil
}

// Update applies an admin edit. A body that changes is_admin, role or
// grade on the caller's own account is a role change and is refused.
func (s *Service) Update(ctx context.Context, caller access.Caller, id int64, dto UpdateUserDTO) (*Profile, error) {
	if dto.ChangesRole() {
		if err := access.CheckSelfAction(caller, id, access.ActionChangeRole).Err(); err != nil {
			return nil, err
		}
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	isAdmin := current.IsAdmin
	if dto.IsAdmin != nil {
		isAdmin = *dto.IsAdmin
	}
	if dto.Role != nil {
		role, err := coreUser.ParseRole(*dto.Role)
		if err != nil {
			return nil, errors.ErrInvalidRole
		}
		isAdmin = role.IsAdmin()
	}

	fields := map[string]interface{}{}
	if dto.Name != nil {
		fields["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Department != nil {
		fields["department"] = *dto.Department
	}
	if dto.Designation != nil {
		fields["designation"] = *dto.Designation
	}

	grade := current.Grade
	if dto.Grade != nil {
		grade = *dto.Grade
	}
	if isAdmin {
		grade = 0
	} else if !access.Grade(grade).Valid() {
		grade = int(access.GradeEmployee)
	}
	if isAdmin != current.IsAdmin {
		fields["is_admin"] = isAdmin
	}
	if grade != current.Grade {
		fields["grade"] = grade
	}

	department := current.Department
	if dto.Department != nil {
		department = *dto.Department
	}
	if !isAdmin && department == "" {
		return nil, errors.NewValidationFieldError("department", "department is required", errors.ErrCodeInvalidDepartment)
	}

	if len(fields) > 0 {
		if err := s.update(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	if isAdmin != current.IsAdmin || grade != current.Grade {
		s.roleChanged(ctx, caller, id, isAdmin, grade)
	}
	return s.Get(ctx, id)
}

func (s *Service) ChangeRole(ctx context.Context, caller access.Caller, id int64, dto ChangeRoleDTO) (*Profile, error) {
	if err := access.CheckSelfAction(caller, id, access.ActionChangeRole).Err(); err != nil {
		return nil, err
	}

	role, err := coreUser.ParseRole(dto.Role)
	if err != nil {
		return nil, errors.ErrInvalidRole
	}

	if dto.Department != nil && !coreUser.ValidDepartment(*dto.Department) {
		return nil, errors.ErrInvalidDepartment
	}

	admin := role.IsAdmin()
	return s.Update(ctx, caller, id, UpdateUserDTO{IsAdmin: &admin, Department: dto.Department})
}

// Delete removes the account and its external identity. The row is kept
// when the identity provider cannot be reached so the two never diverge.
func (s *Service) Delete(ctx context.Context, caller access.Caller, id int64) error {
	if err := access.CheckSelfAction(caller, id, access.ActionDelete).Err(); err != nil {
		return err
	}

	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if u.ExternalUID != nil && *u.ExternalUID != "" {
		if err := s.revoker.Revoke(ctx, *u.ExternalUID); err != nil {
			return errors.NewDependencyError("failed to revoke external identity", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if stdErrors.Is(err, errors.ErrUserNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.NewDependencyError("failed to delete user", err)
	}

	s.logger.InfoContext(ctx, "user deleted", "target_user_id", id)
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*userDatamodel.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, errors.ErrUserNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.NewDependencyError("failed to load user", err)
	}
	return u, nil
}

func (s *Service) update(ctx context.Context, id int64, fields map[string]interface{}) error {
	if err := s.repo.Update(ctx, id, fields); err != nil {
		if stdErrors.Is(err, errors.ErrUserNotFound) {
			return errors.ErrUserNotFound
		}
		return errors.NewDependencyError("failed to update user", err)
	}
	return nil
}

func (s *Service) roleChanged(ctx context.Context, caller access.Caller, id int64, isAdmin bool, grade int) {
	s.logger.InfoContext(ctx, "user role changed", "target_user_id", id, "is_admin", isAdmin, "grade", grade)
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewUserRoleChangedEvent(id, caller.ID, isAdmin, grade)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish role change", "target_user_id", id, "error", err)
	}
}
