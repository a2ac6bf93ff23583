package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/service"
)

// decisionBody carries the optional comment submitted with an approval or
// rejection.
type decisionBody struct {
	Comments string `json:"comments"`
}

func (s *Server) handleCreateLeave(c *gin.Context) {
	var in service.CreateLeaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, service.ErrValidation)
		return
	}

	req, err := s.leave.Create(c.Request.Context(), in, currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (s *Server) handleGetLeave(c *gin.Context) {
	req, err := s.leave.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) handleListLeave(c *gin.Context) {
	limit, offset := pagination(c)
	reqs, err := s.leave.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": reqs})
}

// leaveDecision builds the handler for one stage/outcome combination.
func (s *Server) leaveDecision(stage string, approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body decisionBody
		_ = c.ShouldBindJSON(&body)

		var (
			req interface{}
			err error
		)
		if stage == "manager" {
			req, err = s.leave.ManagerDecision(c.Request.Context(), c.Param("id"), currentActor(c), approve, body.Comments)
		} else {
			req, err = s.leave.HRDecision(c.Request.Context(), c.Param("id"), currentActor(c), approve, body.Comments)
		}
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

// pagination parses limit/offset query parameters with sane bounds.
func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
