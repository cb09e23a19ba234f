package serviceimpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

type UserServiceImpl struct {
	userRepo  repositories.UserRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewUserService(userRepo repositories.UserRepository, jwtSecret string, jwtTTL time.Duration) services.UserService {
	if jwtTTL <= 0 {
		jwtTTL = 7 * 24 * time.Hour
	}
	return &UserServiceImpl{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existingUser, _ := s.userRepo.GetByEmail(ctx, email)
	if existingUser != nil {
		logger.WarnContext(ctx, "Email already exists", "email", email)
		return "", nil, services.Conflict("email already exists")
	}

	existingUser, _ = s.userRepo.GetByUsername(ctx, req.Username)
	if existingUser != nil {
		logger.WarnContext(ctx, "Username already exists", "username", req.Username)
		return "", nil, services.Conflict("username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return "", nil, err
	}

	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  req.Username,
		Password:  string(hashedPassword),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleUser,
		IsActive:  true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return "", nil, services.Conflict("user already exists")
		}
		logger.ErrorContext(ctx, "Failed to create user in database", "error", err)
		return "", nil, err
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return token, user, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error) {
	invalid := fmt.Errorf("invalid email or password: %w", services.ErrUnauthenticated)

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		logger.WarnContext(ctx, "Login failed - email not found", "email", req.Email)
		return "", nil, invalid
	}

	if !user.IsActive {
		logger.WarnContext(ctx, "Login failed - account disabled", "user_id", user.ID)
		return "", nil, fmt.Errorf("account is disabled: %w", services.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return "", nil, invalid
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return token, user, nil
}

func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, services.NotFound("user")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) GenerateJWT(user *models.User) (string, error) {
	return utils.GenerateToken(utils.UserContext{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, s.jwtSecret, s.jwtTTL)
}
