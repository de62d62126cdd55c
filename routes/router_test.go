package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/groupfeed/config"
	"github.com/cppla/groupfeed/middleware"
	"github.com/cppla/groupfeed/models"
	"github.com/cppla/groupfeed/utils"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type feedBody struct {
	Items []struct {
		ID   uint   `json:"id"`
		Text string `json:"text"`
	} `json:"items"`
	Following  bool `json:"following"`
	Pagination struct {
		Page     int `json:"page"`
		NumPages int `json:"num_pages"`
	} `json:"pagination"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	cfg := config.AppConfig{
		JWTSecret:          "test-secret",
		RateLimitPerMinute: 10000,
		AllowedOrigins:     []string{"*"},
		AdminUsernames:     []string{"admin"},
		PostsPerPage:       10,
		FeedCacheSeconds:   20,
		UploadDir:          filepath.Join(dir, "uploads"),
		GinMode:            "test",
		DBDriver:           "sqlite",
		DatabaseURI:        filepath.Join(dir, "feed.db"),
		LogLevel:           "silent",
	}
	db, err := config.OpenDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &testServer{t: t, engine: SetupRouter(cfg, db, utils.NewMemoryPageCache())}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) decode(w *httptest.ResponseRecorder, out any) {
	s.t.Helper()
	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(s.t, json.Unmarshal(env.Data, out))
	}
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": username, "password": "password123"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	s.decode(w, &data)
	return data.Token
}

func (s *testServer) createPost(token, text string) uint {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/posts", token, gin.H{"text": text})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Post struct {
			ID uint `json:"id"`
		} `json:"post"`
	}
	s.decode(w, &data)
	return data.Post.ID
}

func (s *testServer) feed(path, token string) (feedBody, *httptest.ResponseRecorder) {
	s.t.Helper()
	w := s.do(http.MethodGet, path, token, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var fb feedBody
	s.decode(w, &fb)
	return fb, w
}

func TestGlobalFeedStaysCachedUntilCleared(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	admin := s.register("admin")
	id := s.createPost(alice, "short lived")

	fb, w := s.feed("/api/v1/posts", "")
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheStatusHeader))
	require.Len(t, fb.Items, 1)

	del := s.do(http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", id), alice, nil)
	require.Equal(t, http.StatusOK, del.Code, del.Body.String())

	// the detail view is not cached and sees the delete at once
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", id), "", nil).Code)

	fb, w = s.feed("/api/v1/posts", "")
	assert.Equal(t, "HIT", w.Header().Get(middleware.CacheStatusHeader))
	require.Len(t, fb.Items, 1, "cached page still lists the deleted post")
	assert.Equal(t, id, fb.Items[0].ID)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/v1/admin/cache/clear", alice, nil).Code)
	clear := s.do(http.MethodPost, "/api/v1/admin/cache/clear", admin, nil)
	require.Equal(t, http.StatusOK, clear.Code, clear.Body.String())

	fb, w = s.feed("/api/v1/posts", "")
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheStatusHeader))
	assert.Empty(t, fb.Items)
}

func TestFollowFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	s.register("carol")
	bobPost := s.createPost(bob, "from bob")
	s.createPost(alice, "from alice")

	w := s.do(http.MethodGet, "/api/v1/follow", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/api/v1/auth/login?next=")

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/profile/bob/follow", alice, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/profile/bob/follow", alice, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/profile/alice/follow", alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/v1/profile/ghost/follow", alice, nil).Code)

	fb, _ := s.feed("/api/v1/follow", alice)
	require.Len(t, fb.Items, 1)
	assert.Equal(t, bobPost, fb.Items[0].ID)

	profile, _ := s.feed("/api/v1/profile/bob", alice)
	assert.True(t, profile.Following)
	profile, _ = s.feed("/api/v1/profile/bob", "")
	assert.False(t, profile.Following)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/profile/bob/unfollow", alice, nil).Code)
	fb, _ = s.feed("/api/v1/follow", alice)
	assert.Empty(t, fb.Items)
}

func TestEditByNonAuthorRedirects(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("alice")
	bob := s.register("bob")
	id := s.createPost(alice, "mine")

	w := s.do(http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", id), bob, gin.H{"text": "yours now"})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/api/v1/posts/%d", id), w.Header().Get("Location"))

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", id), alice, gin.H{"text": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var data struct {
		Fields map[string]string `json:"fields"`
	}
	s.decode(w, &data)
	assert.Contains(t, data.Fields, "text")

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", id), alice, gin.H{"text": "still mine"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGroupFeedAndPaging(t *testing.T) {
	s := newTestServer(t)
	admin := s.register("admin")
	alice := s.register("alice")

	w := s.do(http.MethodPost, "/api/v1/admin/groups", admin, gin.H{"title": "Cats", "slug": "cats", "description": "cats only"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		Group struct {
			ID uint `json:"id"`
		} `json:"group"`
	}
	s.decode(w, &created)

	for i := 0; i < 12; i++ {
		body := gin.H{"text": fmt.Sprintf("cat %d", i), "group": created.Group.ID}
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/posts", alice, body).Code)
	}
	s.createPost(alice, "no group")

	fb, _ := s.feed("/api/v1/group/cats?page=2", "")
	assert.Len(t, fb.Items, 2)
	assert.Equal(t, 2, fb.Pagination.NumPages)

	fb, _ = s.feed("/api/v1/group/cats?page=99", "")
	assert.Equal(t, 2, fb.Pagination.Page)

	fb, _ = s.feed("/api/v1/group/cats?page=0", "")
	assert.Equal(t, 2, fb.Pagination.Page)

	fb, _ = s.feed("/api/v1/group/cats?page=99999999999999999999", "")
	assert.Equal(t, 2, fb.Pagination.Page)
	assert.Len(t, fb.Items, 2)

	fb, _ = s.feed("/api/v1/group/cats?page=abc", "")
	assert.Equal(t, 1, fb.Pagination.Page)
	assert.Len(t, fb.Items, 10)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/group/dogs", "", nil).Code)
}

func TestDeletedAccountTokensStopWorking(t *testing.T) {
	s := newTestServer(t)
	first := s.register("alice")
	s.register("bob")

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	s.decode(w, &login)
	require.NotEqual(t, first, login.Token)

	del := s.do(http.MethodDelete, "/api/v1/auth/me", first, nil)
	require.Equal(t, http.StatusOK, del.Code, del.Body.String())

	// the other session was never revoked, but its account is gone
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/auth/me", login.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/profile/bob/follow", login.Token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/posts", login.Token, gin.H{"text": "ghost"}).Code)

	profile, _ := s.feed("/api/v1/profile/bob", login.Token)
	assert.False(t, profile.Following)
}
