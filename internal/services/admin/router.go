package admin

import (
	"net/http"
	"time"

	"github.com/NordCoder/Exposerus/internal/services/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Jobs is the view of the scheduler the admin API needs.
type Jobs interface {
	Jobs() []*scheduler.Job
	Job(name string) (*scheduler.Job, bool)
}

func NewRouter(jobs Jobs, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogging(log))

	h := NewHandler(jobs, log)
	v1 := r.Group("/v1")
	{
		v1.GET("/jobs", h.ListJobs)
		v1.POST("/jobs/:name/run", h.RunJob)
	}
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	return r
}

func requestLogging(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("admin request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func NewServer(addr string, jobs Jobs, log *zap.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(jobs, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
