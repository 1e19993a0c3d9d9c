package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/docuscan/docuscan/internal/models"
	"github.com/docuscan/docuscan/internal/repository"
	"github.com/docuscan/docuscan/internal/utils"
	"github.com/docuscan/docuscan/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
)

type AuthService struct {
	userRepo      *repository.UserRepository
	scanRepo      *repository.ScanRepository
	jwtSecret     string
	jwtExpiration time.Duration
	environment   string
}

func NewAuthService(
	userRepo *repository.UserRepository,
	scanRepo *repository.ScanRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
	environment string,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		scanRepo:      scanRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		environment:   environment,
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

func (s *AuthService) Register(username, password string) (*models.User, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
	)

	if err := validateRegisterInput(username, password); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if existingUser != nil {
		logger.Log.Warn("Username already exists",
			zap.String("username", username),
		)
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password",
			zap.Error(err),
		)
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
		Credits:      models.DailyCredits,
		LastReset:    models.Today(),
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, nil
}

// Login verifies credentials and issues the session token.
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	logger.Log.Debug("Processing user login",
		zap.String("username", username),
	)

	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to get user by username",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("username", username),
		)
		return nil, "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("username", username),
			zap.String("user_id", user.ID.String()),
		)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return user, token, nil
}

// EnsureDailyReset loads the user and applies the once-per-day credit reset.
// Runs before any credit-consuming check in the same request. Returns the
// up-to-date user.
func (s *AuthService) EnsureDailyReset(userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.ApplyDailyReset(models.Today()) {
		if err := s.userRepo.UpdateDailyReset(user.ID, user.Credits, user.LastReset); err != nil {
			logger.Log.Error("Failed to persist daily credit reset",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			return nil, err
		}

		logger.Log.Info("Daily credit reset applied",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username),
			zap.String("reset_date", user.LastReset),
		)
	}

	return user, nil
}

// GetProfile returns the user along with their scan history.
func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, []models.ScanEvent, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	scans, err := s.scanRepo.GetScansByUser(userID)
	if err != nil {
		logger.Log.Error("Failed to fetch scan history",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil, nil, err
	}

	return user, scans, nil
}

// BootstrapAdmin creates the operational admin account on first startup if
// no admin exists yet. The fixed credential is a documented operational seed,
// not a security feature.
func (s *AuthService) BootstrapAdmin(username, password string, credits int) error {
	exists, err := s.userRepo.AdminExists()
	if err != nil {
		return err
	}
	if exists {
		logger.Log.Debug("Admin account already exists, skipping bootstrap")
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         models.RoleAdmin,
		Credits:      credits,
		LastReset:    models.Today(),
	}

	if err := s.userRepo.CreateUser(admin); err != nil {
		return err
	}

	logger.Log.Info("Default admin account created",
		zap.String("username", username),
		zap.Int("credits", credits),
	)

	return nil
}

func validateRegisterInput(username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(username) > 50 {
		return fmt.Errorf("%w: username must be at most 50 characters", ErrInvalidInput)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(password) > 128 {
		return fmt.Errorf("%w: password too long", ErrInvalidInput)
	}
	return nil
}
