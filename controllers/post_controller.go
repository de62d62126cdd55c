package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cppla/groupfeed/middleware"
	"github.com/cppla/groupfeed/services"
	"github.com/cppla/groupfeed/utils"
)

const maxImageSize = 10 * 1024 * 1024

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// PostController manages posts, comments and image uploads.
type PostController struct {
	posts     *services.PostService
	uploadDir string
}

// NewPostController creates a new PostController storing uploads below uploadDir.
func NewPostController(posts *services.PostService, uploadDir string) *PostController {
	return &PostController{posts: posts, uploadDir: uploadDir}
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var form services.PostForm
	if !bindJSON(ctx, &form) {
		return
	}
	post, err := p.posts.Create(ctx.Request.Context(), middleware.CurrentActor(ctx), form)
	if err != nil {
		respondError(ctx, err, 40404, 50020)
		return
	}
	utils.Success(ctx, gin.H{"post": post, "next": "/api/v1/profile/" + post.Author.Username})
}

// GetPost returns a single post with comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40405, "post not found")
		return
	}
	detail, err := p.posts.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, 40405, 50021)
		return
	}
	actor := middleware.CurrentActor(ctx)
	utils.Success(ctx, gin.H{
		"post":     detail.Post,
		"comments": detail.Comments,
		"editable": actor != nil && actor.ID == detail.Post.AuthorID,
	})
}

// UpdatePost lets the author edit their post. Anyone else is redirected back to the post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40406, "post not found")
		return
	}
	var form services.PostForm
	if !bindJSON(ctx, &form) {
		return
	}
	post, err := p.posts.Edit(ctx.Request.Context(), middleware.CurrentActor(ctx), id, form)
	if errors.Is(err, services.ErrForbidden) {
		ctx.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/posts/%d", id))
		return
	}
	if err != nil {
		respondError(ctx, err, 40406, 50022)
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost allows the author or an admin to delete a post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40407, "post not found")
		return
	}
	if err := p.posts.Delete(ctx.Request.Context(), middleware.CurrentActor(ctx), id); err != nil {
		respondError(ctx, err, 40407, 50023)
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment allows authenticated users to comment on posts.
func (p *PostController) CreateComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40408, "post not found")
		return
	}
	var form services.CommentForm
	if !bindJSON(ctx, &form) {
		return
	}
	comment, err := p.posts.AddComment(ctx.Request.Context(), middleware.CurrentActor(ctx), id, form)
	if err != nil {
		respondError(ctx, err, 40408, 50024)
		return
	}
	utils.Success(ctx, gin.H{"comment": comment, "next": fmt.Sprintf("/api/v1/posts/%d", id)})
}

// UploadImage stores an image and returns the URL to use as a post's image reference.
func (p *PostController) UploadImage(ctx *gin.Context) {
	if p.uploadDir == "" {
		utils.Error(ctx, http.StatusServiceUnavailable, 50033, "image uploads are disabled")
		return
	}
	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no image uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		utils.Error(ctx, http.StatusBadRequest, 40031, "image exceeds 10MB")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExts[ext] {
		utils.Error(ctx, http.StatusBadRequest, 40032, "unsupported image type")
		return
	}

	day := time.Now().Format("2006/01/02")
	dir := filepath.Join(p.uploadDir, filepath.FromSlash(day))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}
	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save image")
		return
	}
	defer out.Close()

	// Size header can lie; enforce the limit on the stream
	written, err := io.Copy(out, &io.LimitedReader{R: file, N: maxImageSize + 1})
	if err != nil || written > maxImageSize {
		_ = out.Close()
		_ = os.Remove(dst)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to write image")
			return
		}
		utils.Error(ctx, http.StatusBadRequest, 40031, "image exceeds 10MB")
		return
	}
	utils.Success(ctx, gin.H{"url": "/media/" + day + "/" + name})
}
