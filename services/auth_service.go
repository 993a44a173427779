package services

import (
	"context"
	"errors"

	"blog-cms/logger"
	"blog-cms/models"
	"blog-cms/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	SignupAdmin(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	AdminLogin(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	tokens     TokenService
	bcryptCost int
	log        logger.Logger
}

func NewAuthService(userRepo repositories.UserRepository, tokens TokenService, bcryptCost int, log logger.Logger) AuthService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{userRepo: userRepo, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

// Signup registers a self-service account. The role is always pending.
func (s *authService) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	return s.createUser(ctx, req, models.RolePending)
}

func (s *authService) SignupAdmin(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	return s.createUser(ctx, req, models.RoleAdmin)
}

func (s *authService) createUser(ctx context.Context, req models.SignupRequest, role models.Role) (*models.User, error) {
	email := models.NormalizeEmail(req.Email)
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, models.ErrorConflict{Message: "Email already exists"}
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent signup can pass the lookup above; the unique index decides.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, models.ErrorConflict{Message: "Email already exists"}
		}
		return nil, models.NewInternalError(err)
	}

	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, models.NewInternalError(err)
	}

	switch user.Role {
	case models.RolePending:
		return nil, models.ErrorForbidden{Message: "Your account is pending approval"}
	case models.RoleRejected:
		return nil, models.ErrorForbidden{Message: "Your account has been rejected"}
	}

	return s.issue(user, req.Password, "Login successful")
}

func (s *authService) AdminLogin(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}
	if user == nil || user.Role != models.RoleAdmin {
		return nil, models.ErrorNotFound{Message: "Admin not found"}
	}

	return s.issue(user, req.Password, "Admin login successful")
}

func (s *authService) issue(user *models.User, password, message string) (*models.AuthResponse, error) {
	if !CheckPassword(user.Password, password) {
		s.log.Warn("login rejected", "user_id", user.ID, "reason", "bad credentials")
		return nil, models.ErrorUnauthorized{Message: "Invalid email or password"}
	}
	if !user.Role.CanLogin() {
		return nil, models.ErrorForbidden{Message: "Account cannot sign in"}
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.AuthResponse{
		Message: message,
		Token:   token,
		User:    user.View(),
	}, nil
}

func (s *authService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares in constant time via bcrypt.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
