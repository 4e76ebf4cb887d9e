package user

import (
	"blaccbook/models"
	"blaccbook/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// GetUserByID retrieves a user's profile.
func (s *DefaultUserService) GetUserByID(id string) (*models.User, error) {
	user, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, utils.PersistenceError{Message: "failed to fetch user", Err: err}
	}
	if user == nil {
		return nil, utils.NotFoundError{Message: "user not found"}
	}
	return user, nil
}

// UpdateProfile applies a partial profile update and returns the fresh record.
func (s *DefaultUserService) UpdateProfile(id string, update ProfileUpdate) (*models.User, error) {
	fields := bson.M{}
	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.Phone != "" {
		fields["phone"] = update.Phone
	}
	if update.ProfileImage != "" {
		fields["profile_image"] = update.ProfileImage
	}
	if len(fields) == 0 {
		return nil, utils.ValidationError{Message: "no profile fields to update"}
	}

	if err := s.Repo.UpdateFields(id, fields); err != nil {
		return nil, utils.PersistenceError{Message: "failed to update profile", Err: err}
	}
	return s.GetUserByID(id)
}

// UpdateFCMToken stores the device's push token.
func (s *DefaultUserService) UpdateFCMToken(id, token string) error {
	if token == "" {
		return utils.ValidationError{Message: "FCM token is required"}
	}
	if err := s.Repo.UpdateFields(id, bson.M{"fcm_token": token}); err != nil {
		return utils.PersistenceError{Message: "failed to update FCM token", Err: err}
	}
	return nil
}
