package user

import "blaccbook/models"

// UserService defines account and profile operations.
type UserService interface {
	RegisterUser(user models.User) (*AuthResponse, error)
	AuthenticateUser(email, password string) (*AuthResponse, error)
	GetUserByID(id string) (*models.User, error)
	UpdateProfile(id string, update ProfileUpdate) (*models.User, error)
	UpdateFCMToken(id, token string) error
	RevokeUserAuthToken(id string) error
}

// ProfileUpdate carries the editable profile fields. Empty strings leave the
// stored value unchanged.
type ProfileUpdate struct {
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}
