package stubstore

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"BlogPortal/internal/domain"
	"BlogPortal/internal/ports"
)

// blogRequest is the incoming body for create and update. A nil password
// means the blog is (or becomes) unprotected.
type blogRequest struct {
	Title    string   `json:"title" binding:"required"`
	Author   string   `json:"author" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Tags     []string `json:"tags"`
	Password *string  `json:"password"`
}

type deleteRequest struct {
	Password *string `json:"password"`
}

type handler struct {
	repo   *Repository
	logger *log.Logger
}

// NewHandler builds the stub store's JSON API, the same wire contract the
// portal consumes, backed by sqlite.
func NewHandler(repo *Repository, logger *log.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	h := &handler{repo: repo, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	{
		blogs := v1.Group("/blogs")
		{
			blogs.POST("", h.createBlog)
			blogs.GET("", h.listBlogs)
			blogs.GET("/:id", h.getBlog)
			blogs.PUT("/:id", h.updateBlog)
			blogs.DELETE("/:id", h.deleteBlog)
		}
	}

	return router
}

func (h *handler) createBlog(c *gin.Context) {
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.repo.Insert(c.Request.Context(), req.toBlog())
	if err != nil {
		h.logger.Printf("insert blog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	c.JSON(http.StatusCreated, sanitize(created))
}

func (h *handler) listBlogs(c *gin.Context) {
	blogs, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Printf("list blogs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	out := make([]domain.Blog, 0, len(blogs))
	for _, blog := range blogs {
		out = append(out, sanitize(blog))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) getBlog(c *gin.Context) {
	blog, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ports.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return
	}
	if err != nil {
		h.logger.Printf("get blog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	// The stored password is only revealed to callers that asked for it.
	if c.Query("includePassword") != "true" {
		blog = sanitize(blog)
	}
	c.JSON(http.StatusOK, blog)
}

func (h *handler) updateBlog(c *gin.Context) {
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.repo.Update(c.Request.Context(), c.Param("id"), req.toBlog())
	if errors.Is(err, ports.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return
	}
	if err != nil {
		h.logger.Printf("update blog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	c.JSON(http.StatusOK, sanitize(updated))
}

func (h *handler) deleteBlog(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	blog, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ports.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return
	}
	if err != nil {
		h.logger.Printf("get blog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}

	if stored := blog.StoredPassword(); stored != "" {
		if req.Password == nil || *req.Password != stored {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid password"})
			return
		}
	}

	if err := h.repo.Delete(c.Request.Context(), blog.ID); err != nil {
		h.logger.Printf("delete blog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
}

func (r blogRequest) toBlog() domain.Blog {
	return domain.Blog{
		Title:    r.Title,
		Author:   r.Author,
		Content:  r.Content,
		Tags:     r.Tags,
		Password: r.Password,
	}
}

func sanitize(blog domain.Blog) domain.Blog {
	blog.Password = nil
	return blog
}
