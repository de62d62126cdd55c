package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/groupfeed/utils"
)

// CacheStatusHeader reports HIT or MISS for cached routes.
const CacheStatusHeader = "X-Cache"

type cachedPage struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET responses from cache keyed by the full request URI
// (path and query, so each page number is cached on its own) for ttl.
// Entries are never invalidated by writes; they expire or are cleared explicitly.
func CachePage(cache utils.PageCache, ttl time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet || ttl <= 0 {
			ctx.Next()
			return
		}
		key := utils.PageCachePrefix + ctx.Request.URL.RequestURI()
		if raw, ok := cache.Get(ctx.Request.Context(), key); ok {
			var page cachedPage
			if err := json.Unmarshal(raw, &page); err == nil {
				ctx.Header(CacheStatusHeader, "HIT")
				ctx.Data(http.StatusOK, page.ContentType, page.Body)
				ctx.Abort()
				return
			}
		}

		rec := &bodyRecorder{ResponseWriter: ctx.Writer}
		ctx.Writer = rec
		ctx.Header(CacheStatusHeader, "MISS")
		ctx.Next()

		if rec.Status() != http.StatusOK || ctx.IsAborted() {
			return
		}
		raw, err := json.Marshal(cachedPage{ContentType: rec.Header().Get("Content-Type"), Body: rec.buf.Bytes()})
		if err != nil {
			return
		}
		if err := cache.Set(ctx.Request.Context(), key, raw, ttl); err != nil {
			utils.Sugar.Warnf("page cache set failed key=%s err=%v", key, err)
		}
	}
}
