package groups

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	groupsdomain "social-app-go/internal/domain/groups"
	postsdomain "social-app-go/internal/domain/posts"
	"social-app-go/internal/repository/testdb"
)

func TestMembershipLifecycle(t *testing.T) {
	db := testdb.Open(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	alice := uuid.NewString()
	testdb.CreateUser(t, db, alice, "alice")

	books := groupsdomain.Group{ID: uuid.NewString(), Name: "Books", Slug: "books"}
	require.NoError(t, repo.CreateGroup(ctx, &books))

	membership := groupsdomain.Membership{ID: uuid.NewString(), GroupID: books.ID, UserID: alice}
	require.NoError(t, repo.AddMember(ctx, &membership))

	duplicate := groupsdomain.Membership{ID: uuid.NewString(), GroupID: books.ID, UserID: alice}
	assert.ErrorIs(t, repo.AddMember(ctx, &duplicate), groupsdomain.ErrAlreadyMember)

	count, err := repo.CountMembers(ctx, books.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	isMember, err := repo.IsMember(ctx, books.ID, alice)
	require.NoError(t, err)
	assert.True(t, isMember)

	members, err := repo.ListMembers(ctx, books.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].Username)

	joined, err := repo.ListUserGroups(ctx, alice)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "books", joined[0].Slug)

	deleted, err := repo.DeleteMember(ctx, books.ID, alice)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteMember(ctx, books.ID, alice)
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err = repo.CountMembers(ctx, books.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateGroupDuplicate(t *testing.T) {
	repo := NewPostgres(testdb.Open(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateGroup(ctx, &groupsdomain.Group{ID: uuid.NewString(), Name: "Books", Slug: "books"}))

	err := repo.CreateGroup(ctx, &groupsdomain.Group{ID: uuid.NewString(), Name: "Books", Slug: "books-2"})
	assert.ErrorIs(t, err, groupsdomain.ErrGroupExists)

	err = repo.CreateGroup(ctx, &groupsdomain.Group{ID: uuid.NewString(), Name: "BOOKS!", Slug: "books"})
	assert.ErrorIs(t, err, groupsdomain.ErrGroupExists)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, groupsdomain.ErrGroupNotFound)
}

func TestListGroupsCounts(t *testing.T) {
	db := testdb.Open(t)
	repo := NewPostgres(db)
	ctx := context.Background()

	alice := uuid.NewString()
	testdb.CreateUser(t, db, alice, "alice")

	books := groupsdomain.Group{ID: uuid.NewString(), Name: "Books", Slug: "books"}
	art := groupsdomain.Group{ID: uuid.NewString(), Name: "Art", Slug: "art"}
	require.NoError(t, repo.CreateGroup(ctx, &books))
	require.NoError(t, repo.CreateGroup(ctx, &art))
	require.NoError(t, repo.AddMember(ctx, &groupsdomain.Membership{ID: uuid.NewString(), GroupID: books.ID, UserID: alice}))

	groupID := books.ID
	for i := 0; i < 2; i++ {
		require.NoError(t, db.Create(&postsdomain.Post{
			ID:        uuid.NewString(),
			UserID:    alice,
			GroupID:   &groupID,
			Message:   "hello",
			CreatedAt: time.Now().UTC(),
		}).Error)
	}

	stats, err := repo.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "Art", stats[0].Name)
	assert.Zero(t, stats[0].MemberCount)
	assert.Equal(t, "Books", stats[1].Name)
	assert.EqualValues(t, 1, stats[1].MemberCount)
	assert.EqualValues(t, 2, stats[1].PostCount)

	posts, err := repo.CountPosts(ctx, books.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, posts)
}
