package mw

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

func (r cachedResponse) replay(c *gin.Context) {
	for k, v := range r.headers {
		c.Writer.Header()[k] = v
	}
	c.Writer.Header().Set("X-Cache", "HIT")
	c.Writer.WriteHeader(r.status)
	c.Writer.Write(r.body)
}

// recorder tees the response body so it can be stored once the handler is done.
type recorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// cacheKey scopes entries to the caller so a response gated by role is never
// replayed to someone else. It must run after Authenticate.
func cacheKey(c *gin.Context) string {
	p := PrincipalFrom(c)
	return strconv.FormatInt(p.UserID, 10) + "|" + p.Role + "|" + c.Request.RequestURI
}

// Cache keeps successful GET responses for ttl. Records change only through this
// API, so any successful write drops every entry.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			if isSuccess(c.Writer.Status()) {
				store.Flush()
			}
			return
		}

		key := cacheKey(c)
		if hit, ok := store.Get(key); ok {
			hit.(cachedResponse).replay(c)
			c.Abort()
			return
		}

		rec := &recorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if status := rec.Status(); isSuccess(status) {
			store.Set(key, cachedResponse{
				status:  status,
				headers: rec.Header().Clone(),
				body:    bytes.Clone(rec.body.Bytes()),
			}, ttl)
		}
	}
}
