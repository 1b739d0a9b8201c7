package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"minecontrol-backend/internal/parse"
	"minecontrol-backend/internal/store"
)

// resource wires the five CRUD routes of one table. bind turns the request body into
// a record and may name extra columns that an update must leave untouched.
type resource[T any] struct {
	module string
	bind   func(c *gin.Context, creating bool) (*T, []string, error)
	id     func(*T) int64
	// onDelete runs after a successful delete with the removed row.
	onDelete func(*T)
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: %v", parse.ErrInvalid, err)
}

func (r resource[T]) register(g *gin.RouterGroup, h *Handler, handlers ...gin.HandlerFunc) {
	rg := g.Group("/"+r.module, handlers...)
	rg.GET("", r.list(h))
	rg.GET("/:id", r.get(h))
	rg.POST("", r.create(h))
	rg.PUT("/:id", r.update(h))
	rg.DELETE("/:id", r.remove(h))
}

func (r resource[T]) list(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := store.List[T](c.Request.Context(), h.store.DB())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func (r resource[T]) get(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		rec, err := store.Get[T](c.Request.Context(), h.store.DB(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func (r resource[T]) create(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, _, err := r.bind(c, true)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := store.Create(c.Request.Context(), h.store.DB(), rec); err != nil {
			respondError(c, err)
			return
		}

		id := r.id(rec)
		h.record(c, r.module, "create", id, fmt.Sprintf("created %s %d", r.module, id))
		c.JSON(http.StatusCreated, gin.H{"message": "record created", "id": id})
	}
}

func (r resource[T]) update(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		rec, omit, err := r.bind(c, false)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := store.Replace(c.Request.Context(), h.store.DB(), id, rec, omit...); err != nil {
			respondError(c, err)
			return
		}

		h.record(c, r.module, "update", id, fmt.Sprintf("updated %s %d", r.module, id))
		c.JSON(http.StatusOK, gin.H{"message": "record updated", "id": id})
	}
}

func (r resource[T]) remove(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var existing *T
		if r.onDelete != nil {
			rec, err := store.Get[T](ctx, h.store.DB(), id)
			if err != nil {
				respondError(c, err)
				return
			}
			existing = rec
		}
		if err := store.Delete[T](ctx, h.store.DB(), id); err != nil {
			respondError(c, err)
			return
		}
		if existing != nil {
			r.onDelete(existing)
		}

		h.record(c, r.module, "delete", id, fmt.Sprintf("deleted %s %d", r.module, id))
		c.JSON(http.StatusOK, gin.H{"message": "record deleted", "id": id})
	}
}
