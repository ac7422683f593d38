package repositories

import (
	"testing"
	"time"

	"market-chat/domain"
	"market-chat/errors"

	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create_And_Find(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))
	user := domain.User{ID: "alice", FirstName: "Alice", LastName: "Martin", CreatedAt: time.Now().UTC().Truncate(time.Second)}

	req.NoError(repo.CreateUser(user))
	got, err := repo.FindUserByID("alice")

	req.NoError(err)
	req.Equal(user, got)
}

func TestUserRepository_Duplicate_Rejected(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))
	user := domain.User{ID: "alice"}

	req.NoError(repo.CreateUser(user))

	req.ErrorIs(repo.CreateUser(user), errors.ErrUserExists)
}

func TestUserRepository_Unknown_User(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.FindUserByID("nobody")

	req.ErrorIs(err, errors.ErrUserNotFound)
}

func TestAdRepository_Create_And_Find(t *testing.T) {
	req := require.New(t)
	repo := NewAdRepository(openTestDB(t))
	ad := domain.Ad{ID: "ad-1", Title: "Mountain bike", OwnerID: "alice", CreatedAt: time.Now().UTC().Truncate(time.Second)}

	req.NoError(repo.CreateAd(ad))
	got, err := repo.FindAdByID("ad-1")

	req.NoError(err)
	req.Equal(ad, got)

	_, err = repo.FindAdByID("ad-404")
	req.ErrorIs(err, errors.ErrAdNotFound)
}
