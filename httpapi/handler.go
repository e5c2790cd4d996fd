package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gustapinto/go-todo-store/todo"
	"github.com/sirupsen/logrus"
)

// Store The record store operations served over HTTP, implemented by [todo.Store]
type Store interface {
	List(ctx context.Context) ([]todo.Record, error)
	Get(ctx context.Context, id string) (todo.Record, error)
	Insert(ctx context.Context, title, description string) (string, error)
	Update(ctx context.Context, id string, patch todo.Patch) error
	Delete(ctx context.Context, id string) error
}

var _ Store = (*todo.Store)(nil)

// Options Optional router features
type Options struct {
	// Metrics Enables request metrics and the GET /metrics endpoint
	Metrics *Metrics

	// Sentry Reports panics and storage failures to Sentry, sentry.Init must
	// have been called before
	Sentry bool
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type handler struct {
	store  Store
	logger *logrus.Entry
}

// NewRouter Builds the gin engine serving the todo routes
func NewRouter(store Store, logger *logrus.Entry, opts Options) *gin.Engine {
	h := &handler{
		store:  store,
		logger: logger.WithField("component", "http_handler"),
	}

	router := gin.New()
	router.Use(requestLogger(logger.WithField("component", "http")))
	if opts.Sentry {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", opts.Metrics.Handler())
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	todos := router.Group("/todos")
	{
		todos.GET("", h.listTodos)
		todos.GET("/:id", h.getTodo)
		todos.POST("", h.createTodo)
		todos.PUT("/:id", h.updateTodo)
		todos.DELETE("/:id", h.deleteTodo)
	}

	router.NoRoute(func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	return router
}

func (h *handler) listTodos(c *gin.Context) {
	records, err := h.store.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *handler) getTodo(c *gin.Context) {
	record, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *handler) createTodo(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid JSON body"})
		return
	}

	id, err := h.store.Insert(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.WithField("id", id).Info("todo created")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *handler) updateTodo(c *gin.Context) {
	var patch todo.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid JSON body"})
		return
	}

	id := c.Param("id")
	if err := h.store.Update(c.Request.Context(), id, patch); err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.WithField("id", id).Info("todo updated")
	c.JSON(http.StatusOK, gin.H{"msg": "todo updated successfully"})
}

func (h *handler) deleteTodo(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	h.logger.WithField("id", id).Info("todo deleted")
	c.JSON(http.StatusOK, gin.H{"msg": "todo deleted successfully"})
}

func (h *handler) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, todo.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "todo not found"})
	case errors.Is(err, todo.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	default:
		h.logger.WithError(err).Error("storage failure")
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("route", c.FullPath())
				hub.CaptureException(err)
			})
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "unable to access todo storage"})
	}
}
