package services

import (
	"context"
	"errors"

	"blog-cms/logger"
	"blog-cms/models"
	"blog-cms/repositories"

	"github.com/google/uuid"
)

type AdminService interface {
	ApproveUser(ctx context.Context, id uuid.UUID, approved bool) (*models.User, error)
	ListPending(ctx context.Context) ([]models.User, error)
}

type adminService struct {
	userRepo repositories.UserRepository
	log      logger.Logger
}

func NewAdminService(userRepo repositories.UserRepository, log logger.Logger) AdminService {
	return &adminService{userRepo: userRepo, log: log}
}

// ApproveUser moves a pending user to author or rejected. The write is a
// compare-and-set on the role read here, so two admins racing on the same
// user cannot both succeed.
func (s *adminService) ApproveUser(ctx context.Context, id uuid.UUID, approved bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, models.NewInternalError(err)
	}

	next, err := user.Role.Transition(approved)
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			return nil, models.ErrorValidation{Message: "User already approved or rejected"}
		}
		return nil, models.NewInternalError(err)
	}

	updated, err := s.userRepo.UpdateRole(ctx, id, user.Role, next)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrRoleChanged):
		return nil, models.ErrorValidation{Message: "User already approved or rejected"}
	case errors.Is(err, repositories.ErrRecordNotFound):
		return nil, models.ErrorNotFound{Message: "User not found"}
	default:
		return nil, models.NewInternalError(err)
	}

	s.log.Info("user role changed", "user_id", id, "from", user.Role, "to", next)
	return updated, nil
}

func (s *adminService) ListPending(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.ListByRole(ctx, models.RolePending)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
