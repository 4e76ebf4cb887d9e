package user

import (
	"context"
	"regexp"
	"time"

	userRepo "blaccbook/database/repository/user"
	"blaccbook/models"
	"blaccbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultUserService is the production implementation of UserService.
type DefaultUserService struct {
	Repo userRepo.UserRepository
	// AuthCache holds cached token hashes; nil disables cache
	// invalidation.
	AuthCache *redis.Client
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID           string `json:"id"`
	Token        string `json:"token"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	UserType     string `json:"userType,omitempty"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterUser creates a new account, generates a token, stores its hash, and
// clears the auth cache entry.
func (s *DefaultUserService) RegisterUser(user models.User) (*AuthResponse, error) {
	if user.Email == "" || user.Password == "" {
		return nil, utils.ValidationError{Message: "email and password are required"}
	}
	if !emailPattern.MatchString(user.Email) {
		return nil, utils.ValidationError{Message: "invalid email address"}
	}
	if user.Name == "" {
		return nil, utils.ValidationError{Message: "name is required"}
	}
	if len(user.Password) < 8 {
		return nil, utils.ValidationError{Message: "password must be at least 8 characters long"}
	}
	if user.UserType == "" {
		user.UserType = models.UserTypeCustomer
	}

	existing, err := s.Repo.GetByEmailWithProjection(user.Email, bson.M{"id": 1})
	if err != nil {
		utils.GetLogger().Error("Failed to check for existing user", zap.Error(err))
		return nil, utils.PersistenceError{Message: "registration failed, please try again", Err: err}
	}
	if existing != nil {
		return nil, utils.ValidationError{Message: "a user with this email already exists"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("Failed to hash password", zap.Error(err))
		return nil, utils.PersistenceError{Message: "registration failed, please try again", Err: err}
	}
	user.PasswordHash = string(hashedPassword)
	user.Password = "" // Clear plain-text password

	user.ID = uuid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastLogin = now

	if err := s.Repo.Create(&user); err != nil {
		utils.GetLogger().Error("Failed to create user", zap.Error(err))
		return nil, utils.PersistenceError{Message: "registration failed, please try again", Err: err}
	}

	token, err := utils.GenerateToken(user.ID, user.Email, 24*time.Hour)
	if err != nil {
		utils.GetLogger().Error("Failed to generate auth token", zap.Error(err))
		return nil, utils.PersistenceError{Message: "registration failed, please try again", Err: err}
	}

	if err := s.Repo.UpdateFields(user.ID, bson.M{"token_hash": utils.HashToken(token)}); err != nil {
		utils.GetLogger().Error("Failed to store token hash", zap.Error(err))
		return nil, utils.PersistenceError{Message: "registration failed, please try again", Err: err}
	}

	s.clearAuthCache(user.ID)

	return &AuthResponse{
		ID:           user.ID,
		Token:        token,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		ProfileImage: user.ProfileImage,
		UserType:     user.UserType,
	}, nil
}

// AuthenticateUser verifies credentials, rotates the token, stamps lastLogin,
// and clears the auth cache entry.
func (s *DefaultUserService) AuthenticateUser(email, password string) (*AuthResponse, error) {
	projection := bson.M{
		"password_hash": 1, "id": 1, "email": 1, "name": 1,
		"profile_image": 1, "phone": 1, "user_type": 1,
	}
	user, err := s.Repo.GetByEmailWithProjection(email, projection)
	if err != nil {
		utils.GetLogger().Error("Failed to fetch user for authentication", zap.Error(err))
		return nil, utils.PersistenceError{Message: "authentication failed, please try again", Err: err}
	}
	if user == nil {
		return nil, utils.PermissionError{Message: "invalid email or password"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utils.PermissionError{Message: "invalid email or password"}
	}

	token, err := utils.GenerateToken(user.ID, user.Email, 24*time.Hour)
	if err != nil {
		utils.GetLogger().Error("Failed to generate auth token", zap.Error(err))
		return nil, utils.PersistenceError{Message: "authentication failed, please try again", Err: err}
	}

	fields := bson.M{
		"token_hash": utils.HashToken(token),
		"last_login": time.Now(),
	}
	if err := s.Repo.UpdateFields(user.ID, fields); err != nil {
		utils.GetLogger().Error("Failed to store token hash", zap.Error(err))
		return nil, utils.PersistenceError{Message: "authentication failed, please try again", Err: err}
	}

	s.clearAuthCache(user.ID)

	return &AuthResponse{
		ID:           user.ID,
		Token:        token,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		ProfileImage: user.ProfileImage,
		UserType:     user.UserType,
	}, nil
}

// RevokeUserAuthToken clears the stored token hash and the auth cache entry.
func (s *DefaultUserService) RevokeUserAuthToken(userID string) error {
	if err := s.Repo.UpdateFields(userID, bson.M{"token_hash": ""}); err != nil {
		utils.GetLogger().Error("Failed to revoke token", zap.String("userID", userID), zap.Error(err))
		return utils.PersistenceError{Message: "failed to logout, please try again", Err: err}
	}
	s.clearAuthCache(userID)
	return nil
}

func (s *DefaultUserService) clearAuthCache(userID string) {
	if s.AuthCache == nil {
		return
	}
	cacheKey := utils.AuthCachePrefix + userID
	if err := s.AuthCache.Del(context.Background(), cacheKey).Err(); err != nil {
		utils.GetLogger().Error("Failed to clear auth cache", zap.Error(err))
	}
}
