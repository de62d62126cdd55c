package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/groupfeed/config"
	"github.com/cppla/groupfeed/models"
	"github.com/cppla/groupfeed/repositories"
)

type fixture struct {
	db       *gorm.DB
	users    repositories.UserRepository
	groups   repositories.GroupRepository
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	follows  repositories.FollowRepository
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:    "sqlite",
		DatabaseURI: filepath.Join(t.TempDir(), "feed.db"),
		LogLevel:    "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &fixture{
		db:       db,
		users:    repositories.NewUserRepository(db),
		groups:   repositories.NewGroupRepository(db),
		posts:    repositories.NewPostRepository(db),
		comments: repositories.NewCommentRepository(db),
		follows:  repositories.NewFollowRepository(db),
		clock:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: slug, Slug: slug, Description: slug + " group"}
	require.NoError(t, f.groups.Create(context.Background(), g))
	return g
}

// post inserts a post one minute after the previous one.
func (f *fixture) post(t *testing.T, author *models.User, group *models.Group) *models.Post {
	t.Helper()
	f.clock = f.clock.Add(time.Minute)
	p := &models.Post{Text: "hello from " + author.Username, AuthorID: author.ID, CreatedAt: f.clock}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

func actorOf(u *models.User) *Actor {
	return &Actor{ID: u.ID, Username: u.Username}
}

func ids(posts []models.Post) []uint {
	out := make([]uint, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}
