package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.posts, f.comments, f.groups)
	ctx := context.Background()

	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	cats := f.group(t, "cats")

	t.Run("create requires actor", func(t *testing.T) {
		_, err := svc.Create(ctx, nil, PostForm{Text: "hi"})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("create validates", func(t *testing.T) {
		_, err := svc.Create(ctx, actorOf(alice), PostForm{Text: "   "})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "text")

		missing := uint(9999)
		_, err = svc.Create(ctx, actorOf(alice), PostForm{Text: "hi", GroupID: &missing})
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "group")
	})

	t.Run("create sanitizes markup", func(t *testing.T) {
		p, err := svc.Create(ctx, actorOf(alice), PostForm{Text: "<script>x()</script>hello <b>world</b>", GroupID: &cats.ID})
		require.NoError(t, err)
		assert.Equal(t, "hello world", p.Text)
		assert.Equal(t, "alice", p.Author.Username)
		require.NotNil(t, p.Group)
		assert.Equal(t, "cats", p.Group.Slug)
	})

	post, err := svc.Create(ctx, actorOf(alice), PostForm{Text: "original"})
	require.NoError(t, err)

	t.Run("edit by non-author is forbidden", func(t *testing.T) {
		_, err := svc.Edit(ctx, actorOf(bob), post.ID, PostForm{Text: "hijacked"})
		assert.ErrorIs(t, err, ErrForbidden)

		detail, err := svc.Get(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", detail.Post.Text)
	})

	t.Run("edit by author keeps created_at", func(t *testing.T) {
		edited, err := svc.Edit(ctx, actorOf(alice), post.ID, PostForm{Text: "edited", GroupID: &cats.ID})
		require.NoError(t, err)
		assert.Equal(t, "edited", edited.Text)
		assert.True(t, post.CreatedAt.Equal(edited.CreatedAt))
		require.NotNil(t, edited.GroupID)
		assert.Equal(t, cats.ID, *edited.GroupID)
	})

	t.Run("special characters survive repeated edits", func(t *testing.T) {
		text := `if a < b && c > d { print("ok") }`
		edited, err := svc.Edit(ctx, actorOf(alice), post.ID, PostForm{Text: text})
		require.NoError(t, err)
		assert.Equal(t, text, edited.Text)

		again, err := svc.Edit(ctx, actorOf(alice), post.ID, PostForm{Text: edited.Text})
		require.NoError(t, err)
		assert.Equal(t, text, again.Text)

		c, err := svc.AddComment(ctx, actorOf(bob), post.ID, CommentForm{Text: "Tom & Jerry"})
		require.NoError(t, err)
		assert.Equal(t, "Tom & Jerry", c.Text)
	})

	t.Run("comments newest first", func(t *testing.T) {
		_, err := svc.AddComment(ctx, actorOf(bob), post.ID, CommentForm{Text: "first"})
		require.NoError(t, err)
		c, err := svc.AddComment(ctx, actorOf(alice), post.ID, CommentForm{Text: "second"})
		require.NoError(t, err)
		assert.Equal(t, "alice", c.Author.Username)

		detail, err := svc.Get(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, detail.Comments, 3)
		assert.Equal(t, "second", detail.Comments[0].Text)

		_, err = svc.AddComment(ctx, actorOf(bob), post.ID, CommentForm{Text: strings.Repeat("x", 5001)})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)

		_, err = svc.AddComment(ctx, actorOf(bob), 9999, CommentForm{Text: "lost"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, actorOf(bob), post.ID), ErrForbidden)

		admin := &Actor{ID: bob.ID, Username: bob.Username, Admin: true}
		require.NoError(t, svc.Delete(ctx, admin, post.ID))

		_, err := svc.Get(ctx, post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
