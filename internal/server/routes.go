package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/", s.index)

	api := r.Group("/api")
	api.GET("/health", s.health)

	// Form actions.
	r.POST("/consolidate", s.consolidate)
	r.POST("/filter", s.filter)
	r.POST("/summarize", s.summarize)
	r.POST("/process", s.process)
}
