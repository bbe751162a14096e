package profiles

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	profilesdomain "social-app-go/internal/domain/profiles"
	"social-app-go/internal/repository/testdb"
)

func TestProfileUpsertAndView(t *testing.T) {
	db := testdb.Open(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	alice := uuid.NewString()
	testdb.CreateUser(t, db, alice, "Alice")

	view, err := repo.GetViewByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, view.UserID)
	assert.Equal(t, "Alice", view.Username)
	assert.Empty(t, view.Bio)

	require.NoError(t, repo.EnsureProfile(ctx, alice))
	require.NoError(t, repo.EnsureProfile(ctx, alice))

	birth := time.Date(1990, 2, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, &profilesdomain.Profile{UserID: alice, Bio: "reader", Location: "Lisbon", BirthDate: &birth}))
	require.NoError(t, repo.UpdatePicture(ctx, alice, "profiles/a/pic.jpg"))

	require.NoError(t, repo.Upsert(ctx, &profilesdomain.Profile{UserID: alice, Bio: "writer", Location: "Porto", BirthDate: &birth}))

	view, err = repo.GetViewByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "writer", view.Bio)
	assert.Equal(t, "Porto", view.Location)
	assert.Equal(t, "profiles/a/pic.jpg", view.PictureKey)
	assert.Equal(t, "1990-02-03", view.BirthDateString())

	_, err = repo.GetViewByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, profilesdomain.ErrProfileNotFound)
}

func TestUpdatePictureWithoutProfile(t *testing.T) {
	repo := NewPostgres(testdb.Open(t))

	err := repo.UpdatePicture(context.Background(), uuid.NewString(), "profiles/x.jpg")
	assert.ErrorIs(t, err, profilesdomain.ErrProfileNotFound)

	_, err = repo.GetByUserID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, profilesdomain.ErrProfileNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	db := testdb.Open(t)
	repo := NewPostgres(db)
	ctx := context.Background()
	alice := uuid.NewString()
	testdb.CreateUser(t, db, alice, "alice")

	err := repo.Transaction(ctx, func(tx profilesdomain.Repository) error {
		if err := tx.EnsureProfile(ctx, alice); err != nil {
			return err
		}
		return profilesdomain.ErrLocationTooLong
	})
	require.ErrorIs(t, err, profilesdomain.ErrLocationTooLong)

	_, err = repo.GetByUserID(ctx, alice)
	assert.ErrorIs(t, err, profilesdomain.ErrProfileNotFound)
}
