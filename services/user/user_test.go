package user

import (
	"testing"
	"time"

	"blaccbook/models"
	"blaccbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*models.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(u *models.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(u *models.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateFields(id string, fields bson.M) error {
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "profile_image":
			u.ProfileImage = v.(string)
		case "fcm_token":
			u.FCMToken = v.(string)
		case "token_hash":
			u.TokenHash = v.(string)
		case "last_login":
			u.LastLogin = v.(time.Time)
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	return r.GetByID(id)
}

func (r *fakeUserRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.User, error) {
	return r.GetByEmail(email)
}

func TestRegisterUserValidation(t *testing.T) {
	svc := &DefaultUserService{Repo: newFakeUserRepo()}

	cases := []models.User{
		{Email: "", Password: "longenough1", Name: "A"},
		{Email: "not-an-email", Password: "longenough1", Name: "A"},
		{Email: "a@b.com", Password: "longenough1", Name: ""},
		{Email: "a@b.com", Password: "short", Name: "A"},
	}
	for _, c := range cases {
		_, err := svc.RegisterUser(c)
		assert.ErrorAs(t, err, &utils.ValidationError{}, "user %+v", c)
	}
}

func TestRegisterUserSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}

	resp, err := svc.RegisterUser(models.User{
		Email:    "new@b.com",
		Password: "longenough1",
		Name:     "New User",
		Phone:    "555",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "New User", resp.Name)
	assert.Equal(t, models.UserTypeCustomer, resp.UserType, "type defaults to customer")

	stored := repo.users[resp.ID]
	require.NotNil(t, stored)
	assert.Empty(t, stored.Password, "plain-text password never persisted")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough1")))
	assert.Equal(t, utils.HashToken(resp.Token), stored.TokenHash)
	assert.False(t, stored.LastLogin.IsZero())
}

func TestAuthenticateUserRotatesToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}

	resp, err := svc.RegisterUser(models.User{Email: "a@b.com", Password: "correct horse", Name: "A"})
	require.NoError(t, err)
	firstLogin := repo.users[resp.ID].LastLogin

	auth, err := svc.AuthenticateUser("a@b.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, auth.ID)
	assert.NotEmpty(t, auth.Token)

	stored := repo.users[resp.ID]
	assert.Equal(t, utils.HashToken(auth.Token), stored.TokenHash, "stored hash follows the issued token")
	assert.False(t, stored.LastLogin.Before(firstLogin))
}

func TestRevokeUserAuthToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := &DefaultUserService{Repo: repo}

	resp, err := svc.RegisterUser(models.User{Email: "a@b.com", Password: "correct horse", Name: "A"})
	require.NoError(t, err)
	require.NotEmpty(t, repo.users[resp.ID].TokenHash)

	require.NoError(t, svc.RevokeUserAuthToken(resp.ID))
	assert.Empty(t, repo.users[resp.ID].TokenHash)
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Email: "a@b.com"}
	svc := &DefaultUserService{Repo: repo}

	_, err := svc.RegisterUser(models.User{Email: "a@b.com", Password: "longenough1", Name: "A"})
	assert.ErrorAs(t, err, &utils.ValidationError{})
}

func TestAuthenticateUserBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users["u1"] = &models.User{ID: "u1", Email: "a@b.com", PasswordHash: string(hash)}
	svc := &DefaultUserService{Repo: repo}

	_, err = svc.AuthenticateUser("missing@b.com", "whatever")
	assert.ErrorAs(t, err, &utils.PermissionError{})

	_, err = svc.AuthenticateUser("a@b.com", "wrong password")
	assert.ErrorAs(t, err, &utils.PermissionError{})
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["u1"] = &models.User{ID: "u1", Name: "Old", Phone: "111"}
	svc := &DefaultUserService{Repo: repo}

	updated, err := svc.UpdateProfile("u1", ProfileUpdate{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "111", updated.Phone, "unset fields survive")

	_, err = svc.UpdateProfile("u1", ProfileUpdate{})
	assert.ErrorAs(t, err, &utils.ValidationError{})

	_, err = svc.GetUserByID("missing")
	assert.ErrorAs(t, err, &utils.NotFoundError{})
}
