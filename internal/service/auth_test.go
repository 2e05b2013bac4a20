package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/elegantjewellery/jewellery-api/internal/dto"
	"github.com/elegantjewellery/jewellery-api/internal/model"
)

type mockUserRepo struct {
	users map[string]*model.User
	byID  map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), byID: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[strings.ToLower(user.Email)] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.byID[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.users[strings.ToLower(email)], nil
}

func (m *mockUserRepo) add(user *model.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[strings.ToLower(user.Email)] = user
	m.byID[user.ID] = user
}

func testTokens() *JWTService {
	return NewJWTService("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(), nil)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "test@example.com", Password: "password123",
		FirstName: "John", LastName: "Doe",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "test@example.com", resp.User.Email)
	assert.Equal(t, model.RoleUser, resp.User.Role)
}

func TestAuthService_Register_AdminRole(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testTokens(), nil)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "admin@example.com", Password: "password123",
		FirstName: "Jane", LastName: "Doe", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(), nil)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "test@example.com", Password: "password123",
		FirstName: "John", LastName: "Doe", Role: "Superuser",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Empty(t, repo.users)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(), nil)

	repo.add(&model.User{Email: "test@example.com"})

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "test@example.com", Password: "password123",
		FirstName: "John", LastName: "Doe",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Len(t, repo.users, 1)
}

func TestAuthService_Register_DuplicateEmail_CaseInsensitive(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(), nil)

	repo.add(&model.User{Email: "test@example.com"})

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "Test@Example.COM", Password: "password123",
		FirstName: "John", LastName: "Doe",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Len(t, repo.users, 1)
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(), nil)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.add(&model.User{
		ID: uuid.New(), Email: "test@example.com", Password: string(hashed), Role: model.RoleUser,
	})

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "test@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(), nil)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.add(&model.User{
		ID: uuid.New(), Email: "test@example.com", Password: string(hashed),
	})

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "test@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmailSameFailure(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(), nil)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.add(&model.User{
		ID: uuid.New(), Email: "known@example.com", Password: string(hashed),
	})

	_, wrongPassErr := svc.Login(context.Background(), dto.LoginRequest{
		Email: "known@example.com", Password: "wrong",
	})
	_, unknownErr := svc.Login(context.Background(), dto.LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	})

	// A caller must not be able to tell the two apart.
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
}

func TestAuthService_CheckEmailExists(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokens(), nil)

	repo.add(&model.User{Email: "present@example.com"})

	exists, err := svc.CheckEmailExists(context.Background(), "Present@Example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckEmailExists(context.Background(), "absent@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
