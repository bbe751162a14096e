package posts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	groupsdomain "social-app-go/internal/domain/groups"
	postsdomain "social-app-go/internal/domain/posts"
	"social-app-go/internal/repository/testdb"
)

type seed struct {
	db    *gorm.DB
	repo  *PostgresRepository
	alice string
	bob   string
	books groupsdomain.Group
}

func newSeed(t *testing.T) seed {
	t.Helper()
	db := testdb.Open(t)

	s := seed{
		db:    db,
		repo:  NewPostgres(db),
		alice: uuid.NewString(),
		bob:   uuid.NewString(),
		books: groupsdomain.Group{ID: uuid.NewString(), Name: "Books", Slug: "books"},
	}
	testdb.CreateUser(t, db, s.alice, "alice")
	testdb.CreateUser(t, db, s.bob, "bob")
	require.NoError(t, db.Create(&s.books).Error)
	return s
}

func (s seed) post(t *testing.T, userID, message string, groupID *string, at time.Time) postsdomain.Post {
	t.Helper()
	post := postsdomain.Post{ID: uuid.NewString(), UserID: userID, GroupID: groupID, Message: message, CreatedAt: at}
	require.NoError(t, s.repo.Create(context.Background(), &post))
	return post
}

func TestDeleteOwnedOnlyRemovesOwnPost(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	hello := s.post(t, s.alice, "hello", &s.books.ID, time.Now().UTC())

	deleted, err := s.repo.DeleteOwned(ctx, hello.ID, s.bob)
	require.NoError(t, err)
	assert.False(t, deleted)

	view, err := s.repo.GetByAuthor(ctx, s.alice, hello.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", view.Message)
	assert.Equal(t, "alice", view.Username)
	require.NotNil(t, view.GroupSlug)
	assert.Equal(t, "books", *view.GroupSlug)

	deleted, err = s.repo.DeleteOwned(ctx, hello.ID, s.alice)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.repo.GetByAuthor(ctx, s.alice, hello.ID)
	assert.ErrorIs(t, err, postsdomain.ErrPostNotFound)
}

func TestListFiltersAndOrders(t *testing.T) {
	s := newSeed(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	s.post(t, s.alice, "first", nil, base)
	s.post(t, s.alice, "second", &s.books.ID, base.Add(time.Hour))
	s.post(t, s.bob, "third", &s.books.ID, base.Add(2*time.Hour))

	all, total, err := s.repo.List(ctx, postsdomain.Query{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 2)
	assert.Equal(t, "third", all[0].Message)
	assert.Equal(t, "second", all[1].Message)

	mine, total, err := s.repo.List(ctx, postsdomain.Query{UserID: s.alice, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, mine, 2)
	assert.Nil(t, mine[1].GroupName)

	inBooks, total, err := s.repo.List(ctx, postsdomain.Query{GroupID: s.books.ID, Limit: 10, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, inBooks, 1)
	assert.Equal(t, "second", inBooks[0].Message)

	none, total, err := s.repo.List(ctx, postsdomain.Query{UserID: uuid.NewString(), Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestGroupExists(t *testing.T) {
	s := newSeed(t)

	ok, err := s.repo.GroupExists(context.Background(), s.books.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.repo.GroupExists(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)
}
