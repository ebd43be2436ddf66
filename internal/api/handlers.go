// internal/api/handlers.go
package api

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"atlas-oracle/internal/common/errors"
	"atlas-oracle/internal/common/metrics"
	"atlas-oracle/internal/oracle"
	selectoraclecard "atlas-oracle/internal/workers/oracle/select-oracle-card"
)

const maxBodyBytes = 64 << 10

type DrawResponse struct {
	Card    oracle.Card `json:"card"`
	Message string      `json:"message"`
}

type CardsResponse struct {
	Cards   []oracle.Card `json:"cards"`
	Missing []string      `json:"missing,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Error  string `json:"error,omitempty"`
}

// handleDraw accepts an optional JSON survey; an empty body is an empty survey.
func (s *Server) handleDraw(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		s.writeError(c, http.StatusRequestEntityTooLarge, errors.NewInvalidSurveyInputError(err))
		return
	}

	input, err := selectoraclecard.DecodeInput(body)
	if err != nil {
		s.writeError(c, http.StatusBadRequest, errors.Normalize(err))
		return
	}

	output, err := s.oracle.Execute(c.Request.Context(), input)
	if err != nil {
		stdErr := errors.Normalize(err)
		s.logger.Error("draw failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
			"details":   stdErr.Details,
		})
		s.writeError(c, http.StatusInternalServerError, stdErr)
		return
	}

	c.JSON(http.StatusOK, DrawResponse{Card: output.Card, Message: output.Message})
}

func (s *Server) handleCards(c *gin.Context) {
	c.JSON(http.StatusOK, CardsResponse{
		Cards:   s.catalog.Cards(),
		Missing: s.catalog.MissingCanonical(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Status: "healthy",
		Time:   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(c *gin.Context) {
	if s.ready != nil {
		if err := s.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, StatusResponse{
				Status: "unavailable",
				Time:   time.Now().Format(time.RFC3339),
				Error:  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, StatusResponse{
		Status: "ready",
		Time:   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) writeError(c *gin.Context, status int, err *errors.StandardError) {
	message := err.Message
	if err.Details != "" && status < http.StatusInternalServerError {
		message += ": " + err.Details
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: string(err.Code), Message: message},
	})
}

// requestMetrics counts requests by matched route and records latency.
func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		s.obs.RecordRequestDuration(c.Request.Context(), route, status, time.Since(start))

		s.logger.Debug("request served", map[string]interface{}{
			"method":   c.Request.Method,
			"route":    route,
			"status":   status,
			"duration": time.Since(start).String(),
		})
	}
}
