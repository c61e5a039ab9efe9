package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	apiVersion  = "v1"
	apiBasePath = "/" + apiVersion + "/"

	progressPath = apiBasePath + "progress"
	metricsPath  = apiBasePath + "metrics"
	healthPath   = "/health"
)

func (s *Server) newRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(progressPath, s.progressHandler)
	if s.metrics != nil {
		r.GET(metricsPath, gin.WrapH(s.metrics))
	}
	r.GET(healthPath, s.healthHandler)

	return r
}

func (s *Server) progressHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.progress.Progress())
}

func (s *Server) healthHandler(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
}
