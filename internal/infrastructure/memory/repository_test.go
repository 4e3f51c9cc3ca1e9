package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-social-network/internal/domain/entity"
	repo "github.com/oksasatya/go-social-network/internal/domain/repository"
)

func newUser(t *testing.T, users *UserRepository, name string) *entity.User {
	t.Helper()
	u := &entity.User{Username: name, Email: name + "@x.com", PasswordHash: "hash"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUserRepository_UniqueEmailAndUsername(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	alice := newUser(t, users, "alice")
	assert.NotEmpty(t, alice.ID)

	err := users.Create(ctx, &entity.User{Username: "other", Email: "ALICE@x.com"})
	assert.ErrorIs(t, err, repo.ErrDuplicateEmail)

	err = users.Create(ctx, &entity.User{Username: "alice", Email: "other@x.com"})
	assert.ErrorIs(t, err, repo.ErrDuplicateUsername)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	alice := newUser(t, users, "alice")

	got, err := users.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	got, err = users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)
	_, err = users.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserRepository_UpdateProfileWritesProfileFieldsOnly(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	alice := newUser(t, users, "alice")

	alice.Bio = "hi"
	alice.Email = "changed@x.com"
	require.NoError(t, users.UpdateProfile(ctx, alice))

	got, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Bio)
	assert.Equal(t, "alice@x.com", got.Email)

	assert.ErrorIs(t, users.UpdateProfile(ctx, &entity.User{ID: "missing"}), repo.ErrNotFound)
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	alice := newUser(t, users, "alice")

	got, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	got.Bio = "mutated"

	again, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Bio)
}

func TestPostRepository_ListOrderAndLikedFlag(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	posts := NewPostRepository(users)
	alice := newUser(t, users, "alice")
	bob := newUser(t, users, "bobby")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	posts.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	first := &entity.Post{AuthorID: alice.ID, Content: "first"}
	second := &entity.Post{AuthorID: bob.ID, Content: "second"}
	require.NoError(t, posts.Create(ctx, first))
	require.NoError(t, posts.Create(ctx, second))

	_, err := posts.ToggleLike(ctx, first.ID, bob.ID)
	require.NoError(t, err)

	feed, err := posts.ListAll(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "second", feed[0].Content)
	assert.Equal(t, "first", feed[1].Content)
	assert.False(t, feed[0].Liked)
	assert.True(t, feed[1].Liked)
	assert.Equal(t, 1, feed[1].LikesCount)
	require.NotNil(t, feed[0].Author)
	assert.Equal(t, "bobby", feed[0].Author.Username)

	own, err := posts.ListByAuthor(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.False(t, own[0].Liked)
}

func TestPostRepository_ToggleIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	posts := NewPostRepository(users)
	alice := newUser(t, users, "alice")
	p := &entity.Post{AuthorID: alice.ID, Content: "hello"}
	require.NoError(t, posts.Create(ctx, p))

	res, err := posts.ToggleLike(ctx, p.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LikeResult{Liked: true, LikesCount: 1}, res)

	res, err = posts.ToggleLike(ctx, p.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LikeResult{Liked: false, LikesCount: 0}, res)

	_, err = posts.ToggleLike(ctx, "missing", alice.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestPostRepository_ConcurrentTogglesKeepCountExact(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	posts := NewPostRepository(users)
	author := newUser(t, users, "author")
	p := &entity.Post{AuthorID: author.ID, Content: "race"}
	require.NoError(t, posts.Create(ctx, p))

	const likers = 50
	var wg sync.WaitGroup
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = posts.ToggleLike(ctx, p.ID, fmt.Sprintf("user-%d", i))
		}(i)
	}
	// one user toggling an even number of times ends not-liked
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = posts.ToggleLike(ctx, p.ID, author.ID)
		}()
	}
	wg.Wait()

	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, likers, got.LikesCount)

	feed, err := posts.ListAll(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.False(t, feed[0].Liked)
}

func TestPostRepository_ReconcileLikeCounts(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	posts := NewPostRepository(users)
	alice := newUser(t, users, "alice")
	p := &entity.Post{AuthorID: alice.ID, Content: "hello"}
	require.NoError(t, posts.Create(ctx, p))
	_, err := posts.ToggleLike(ctx, p.ID, alice.ID)
	require.NoError(t, err)

	posts.posts[p.ID].post.LikesCount = 7

	fixed, err := posts.ReconcileLikeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)

	fixed, err = posts.ReconcileLikeCounts(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}
