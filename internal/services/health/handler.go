package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"harbor-backend/internal/shared/server/respond"
)

func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", s.handle)
}

func (s *Service) handle(c *gin.Context) {
	report := s.Status(c.Request.Context())
	status := http.StatusOK
	if !report.OK {
		status = http.StatusServiceUnavailable
	}
	respond.JSON(c, status, report)
}
