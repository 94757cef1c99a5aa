package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

func TestUserService_UpdateAccount_Validation(t *testing.T) {
	t.Parallel()

	t.Run("username too long", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "original"}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateAccount(context.Background(), UpdateAccountInput{
			UserID:   1,
			Username: strings.Repeat("x", 31),
		})
		assertValidationError(t, err)
	})

	t.Run("username taken", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "original"}, nil
		}
		repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 2, Username: username}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateAccount(context.Background(), UpdateAccountInput{
			UserID:   1,
			Username: "taken",
		})
		assertValidationError(t, err)
	})
}

func TestUserService_UpdateAccount_PartialUpdate(t *testing.T) {
	t.Parallel()

	t.Run("empty username leaves the account as is", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "keeper"}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(repo)
		user, err := svc.UpdateAccount(context.Background(), UpdateAccountInput{UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, "keeper", user.Username)
		require.NotNil(t, saved)
		assert.Equal(t, "keeper", saved.Username)
	})

	t.Run("unchanged username skips the uniqueness lookup", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "same"}, nil
		}
		repo.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
			t.Fatal("GetByUsername should not be called for an unchanged username")
			return nil, nil
		}
		svc := NewUserService(repo)
		user, err := svc.UpdateAccount(context.Background(), UpdateAccountInput{UserID: 1, Username: "same"})
		require.NoError(t, err)
		assert.Equal(t, "same", user.Username)
	})
}

func TestUserService_UpdateAccount_RepoError(t *testing.T) {
	t.Parallel()

	t.Run("GetByID error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("db connection error")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, repoErr
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateAccount(context.Background(), UpdateAccountInput{UserID: 1, Username: "new"})
		assert.ErrorIs(t, err, repoErr)
	})

	t.Run("Update error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("update failed")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		}
		repo.updateFn = func(_ context.Context, _ *models.User) error {
			return repoErr
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateAccount(context.Background(), UpdateAccountInput{UserID: 1, Username: "newname"})
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestUserService_SetAdmin(t *testing.T) {
	t.Parallel()

	t.Run("sets admin flag to true", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, IsAdmin: false}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(repo)
		user, err := svc.SetAdmin(context.Background(), 5, true)
		require.NoError(t, err)
		assert.True(t, user.IsAdmin)
		require.NotNil(t, saved)
		assert.True(t, saved.IsAdmin)
	})

	t.Run("unsets admin flag to false", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, IsAdmin: true}, nil
		}
		svc := NewUserService(repo)
		user, err := svc.SetAdmin(context.Background(), 5, false)
		require.NoError(t, err)
		assert.False(t, user.IsAdmin)
	})

	t.Run("user not found propagates error", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("user not found")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, repoErr
		}
		svc := NewUserService(repo)
		_, err := svc.SetAdmin(context.Background(), 99, true)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Parallel()

	t.Run("returns user from repo", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice"}, nil
		}
		svc := NewUserService(repo)
		user, err := svc.GetUserByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("not found")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, repoErr
		}
		svc := NewUserService(repo)
		_, err := svc.GetUserByID(context.Background(), 99)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	var gotLimit, gotOffset int
	repo.listFn = func(_ context.Context, limit, offset int) ([]models.User, error) {
		gotLimit, gotOffset = limit, offset
		return []models.User{{ID: 1}, {ID: 2}}, nil
	}
	svc := NewUserService(repo)
	users, err := svc.ListUsers(context.Background(), 25, 50)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 25, gotLimit)
	assert.Equal(t, 50, gotOffset)
}
