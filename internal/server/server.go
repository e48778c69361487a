// internal/server/server.go
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"attrition-insights/internal/attrition"
	"attrition-insights/internal/cache"
	"attrition-insights/internal/common/errors"
	"attrition-insights/internal/common/logger"
	"attrition-insights/internal/models"
	"attrition-insights/internal/pipeline"
)

// Server exposes the prediction and reporting API over HTTP.
type Server struct {
	service *attrition.Service
	runner  *pipeline.Runner
	cache   *cache.ReportCache
	logger  logger.Logger
	engine  *gin.Engine
}

func New(service *attrition.Service, runner *pipeline.Runner, reportCache *cache.ReportCache, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		service: service,
		runner:  runner,
		cache:   reportCache,
		logger:  log.WithFields(map[string]interface{}{"component": "http-server"}),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.POST("/predict", s.handlePredict)
	api.GET("/report", s.handleReport)
	api.GET("/alerts", s.handleAlerts)

	s.engine = router
	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": addr})
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"model_state": s.service.State().String(),
	})
}

type predictResponse struct {
	EmployeeID string `json:"employeeId"`
	Verdict    string `json:"verdict"`
}

func (s *Server) handlePredict(c *gin.Context) {
	var record models.SurveyRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := record.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verdict, err := s.service.Predict(record.FloatScores())
	if err != nil {
		switch errors.CodeOf(err) {
		case errors.ErrCodeFeatureMismatch:
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":           "survey is missing required question scores",
				"missing_columns": errors.MissingColumns(err),
			})
		case errors.ErrCodeState:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model is not trained yet"})
		default:
			s.logger.WithError(err).Error("prediction failed", nil)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		}
		return
	}

	c.JSON(http.StatusOK, predictResponse{EmployeeID: record.EmployeeID, Verdict: verdict})
}

// handleReport serves the latest cached report, recomputing on a cache miss.
func (s *Server) handleReport(c *gin.Context) {
	ctx := c.Request.Context()

	if s.cache != nil {
		if report, ok := s.cache.GetReport(ctx); ok {
			c.JSON(http.StatusOK, report)
			return
		}
	}

	report, _, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.WithError(err).Error("on-demand report run failed", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleAlerts(c *gin.Context) {
	ctx := c.Request.Context()

	if s.cache != nil {
		if alerts, ok := s.cache.GetAlerts(ctx); ok {
			c.JSON(http.StatusOK, gin.H{"alerts": alerts})
			return
		}
	}

	_, alerts, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.WithError(err).Error("on-demand alert run failed", nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "alert evaluation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
