package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/lib/password"
	"github.com/magabrotheeeer/mypedia/internal/models"
	services "github.com/magabrotheeeer/mypedia/internal/services/user"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUser(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUser(ctx context.Context, user *models.User) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) RemoveUser(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) ListPaymentsForOwner(ctx context.Context, ownerID int) ([]*models.Payment, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func testUser() *models.User {
	lastLogin := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &models.User{
		ID:           10,
		Email:        "user@example.com",
		Username:     strPtr("someuser"),
		FirstName:    strPtr("Ivan"),
		LastName:     strPtr("Petrov"),
		PhoneNumber:  strPtr("+79990001122"),
		Country:      strPtr("RU"),
		PasswordHash: "hash",
		Role:         "user",
		IsActive:     true,
		LastLogin:    &lastLogin,
	}
}

func TestUserService_Read(t *testing.T) {
	t.Run("owner gets full profile with payments history", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewUserService(repo, discardLogger())

		repo.On("GetUser", mock.Anything, 10).Return(testUser(), nil).Once()
		repo.On("ListPaymentsForOwner", mock.Anything, 10).
			Return([]*models.Payment{{ID: 1, Amount: 100}}, nil).Once()

		got, err := svc.Read(context.Background(),
			models.Principal{UserID: 10, Role: access.RoleUser}, 10)
		assert.NoError(t, err)

		profile, ok := got.(*models.UserProfile)
		assert.True(t, ok)
		assert.Equal(t, "+79990001122", *profile.PhoneNumber)
		assert.Len(t, profile.PaymentsHistory, 1)
		repo.AssertExpectations(t)
	})

	t.Run("stranger gets public profile without sensitive fields", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewUserService(repo, discardLogger())

		repo.On("GetUser", mock.Anything, 10).Return(testUser(), nil).Once()

		got, err := svc.Read(context.Background(),
			models.Principal{UserID: 99, Role: access.RoleUser}, 10)
		assert.NoError(t, err)

		public, ok := got.(*models.PublicUser)
		assert.True(t, ok)
		assert.Equal(t, "user@example.com", public.Email)
		repo.AssertNotCalled(t, "ListPaymentsForOwner", mock.Anything, mock.Anything)
	})

	t.Run("moderator gets public profile too", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewUserService(repo, discardLogger())

		repo.On("GetUser", mock.Anything, 10).Return(testUser(), nil).Once()

		got, err := svc.Read(context.Background(),
			models.Principal{UserID: 2, Role: access.RoleModerator}, 10)
		assert.NoError(t, err)

		_, ok := got.(*models.PublicUser)
		assert.True(t, ok)
	})

	t.Run("admin gets full profile", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewUserService(repo, discardLogger())

		repo.On("GetUser", mock.Anything, 10).Return(testUser(), nil).Once()
		repo.On("ListPaymentsForOwner", mock.Anything, 10).Return([]*models.Payment{}, nil).Once()

		got, err := svc.Read(context.Background(),
			models.Principal{UserID: 3, Role: access.RoleAdmin}, 10)
		assert.NoError(t, err)

		_, ok := got.(*models.UserProfile)
		assert.True(t, ok)
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("owner updates own password", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewUserService(repo, discardLogger())

		repo.On("GetUser", mock.Anything, 10).Return(testUser(), nil).Once()
		repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.PasswordHash != "hash" &&
				password.CompareHash(u.PasswordHash, "newsecret") == nil
		})).Return(1, nil).Once()

		count, err := svc.Update(context.Background(),
			models.Principal{UserID: 10, Role: access.RoleUser},
			models.DummyUserUpdate{Password: strPtr("newsecret")}, 10)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		repo.AssertExpectations(t)
	})

	t.Run("moderator sensitive fields silently dropped", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewUserService(repo, discardLogger())

		repo.On("GetUser", mock.Anything, 10).Return(testUser(), nil).Once()
		repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			// Общедоступное поле принято, конфиденциальные остались прежними.
			return *u.Username == "renamed" &&
				*u.LastName == "Petrov" &&
				*u.PhoneNumber == "+79990001122" &&
				u.PasswordHash == "hash"
		})).Return(1, nil).Once()

		count, err := svc.Update(context.Background(),
			models.Principal{UserID: 2, Role: access.RoleModerator},
			models.DummyUserUpdate{
				Username:    strPtr("renamed"),
				LastName:    strPtr("Hacked"),
				PhoneNumber: strPtr("+70000000000"),
				Password:    strPtr("pwned"),
			}, 10)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		repo.AssertExpectations(t)
	})

	t.Run("admin updates sensitive fields of others", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewUserService(repo, discardLogger())

		repo.On("GetUser", mock.Anything, 10).Return(testUser(), nil).Once()
		repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return *u.PhoneNumber == "+71112223344"
		})).Return(1, nil).Once()

		_, err := svc.Update(context.Background(),
			models.Principal{UserID: 3, Role: access.RoleAdmin},
			models.DummyUserUpdate{PhoneNumber: strPtr("+71112223344")}, 10)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("stranger cannot edit foreign profile", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc := services.NewUserService(repo, discardLogger())

		_, err := svc.Update(context.Background(),
			models.Principal{UserID: 99, Role: access.RoleUser},
			models.DummyUserUpdate{Username: strPtr("x")}, 10)
		assert.ErrorIs(t, err, access.ErrForbidden)
		repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})
}

func TestUserService_Remove(t *testing.T) {
	tests := []struct {
		name       string
		principal  models.Principal
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:      "owner removes own account",
			principal: models.Principal{UserID: 10, Role: access.RoleUser},
			setupMocks: func(r *UserRepoMock) {
				r.On("RemoveUser", mock.Anything, 10).Return(1, nil).Once()
			},
		},
		{
			name:      "admin removes any account",
			principal: models.Principal{UserID: 3, Role: access.RoleAdmin},
			setupMocks: func(r *UserRepoMock) {
				r.On("RemoveUser", mock.Anything, 10).Return(1, nil).Once()
			},
		},
		{
			name:       "moderator cannot remove accounts",
			principal:  models.Principal{UserID: 2, Role: access.RoleModerator},
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    access.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc := services.NewUserService(repo, discardLogger())

			tt.setupMocks(repo)

			_, err := svc.Remove(context.Background(), tt.principal, 10)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_List(t *testing.T) {
	repo := new(UserRepoMock)
	svc := services.NewUserService(repo, discardLogger())

	repo.On("ListUsers", mock.Anything, 20, 0).Return([]*models.User{testUser()}, nil).Once()

	got, err := svc.List(context.Background(), 20, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "user@example.com", got[0].Email)
	repo.AssertExpectations(t)
}
