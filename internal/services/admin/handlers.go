package admin

import (
	"net/http"

	"github.com/NordCoder/Exposerus/internal/services/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	jobs Jobs
	log  *zap.Logger
}

func NewHandler(jobs Jobs, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{jobs: jobs, log: log.With(zap.String("component", "admin"))}
}

func (h *Handler) ListJobs(c *gin.Context) {
	jobs := h.jobs.Jobs()
	out := make([]scheduler.Status, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Status())
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

func (h *Handler) RunJob(c *gin.Context) {
	name := c.Param("name")
	j, ok := h.jobs.Job(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if !j.Trigger(c.Request.Context()) {
		c.JSON(http.StatusConflict, gin.H{"error": "job is already running"})
		return
	}
	h.log.Info("job triggered manually", zap.String("job", name))
	c.JSON(http.StatusAccepted, gin.H{"job": name, "status": "started"})
}
