package models

import "time"

// User types.
const (
	UserTypeCustomer = "customer"
	UserTypeVendor   = "vendor"
	UserTypeAdmin    = "admin"
)

// User represents a platform account (customer, vendor, or admin).
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Password     string    `bson:"-" json:"password,omitempty"` // plain text, request only
	PasswordHash string    `bson:"password_hash" json:"-"`
	Phone        string    `bson:"phone" json:"phone"`
	ProfileImage string    `bson:"profile_image" json:"profileImage,omitempty"`
	UserType     string    `bson:"user_type" json:"userType"`
	FCMToken     string    `bson:"fcm_token" json:"-"`
	TokenHash    string    `bson:"token_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
	LastLogin    time.Time `bson:"last_login" json:"lastLogin"`
}
