package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/service"
)

func (s *Server) handleCreateTravel(c *gin.Context) {
	var in service.CreateTravelInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, service.ErrValidation)
		return
	}

	req, err := s.travel.Create(c.Request.Context(), in, currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (s *Server) handleGetTravel(c *gin.Context) {
	req, err := s.travel.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) handleListTravel(c *gin.Context) {
	limit, offset := pagination(c)
	reqs, err := s.travel.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": reqs})
}

func (s *Server) travelDecision(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body decisionBody
		_ = c.ShouldBindJSON(&body)

		req, err := s.travel.ManagerDecision(c.Request.Context(), c.Param("id"), currentActor(c), approve, body.Comments)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	}
}

func (s *Server) handleBookTravel(c *gin.Context) {
	var in service.BookTravelInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, service.ErrValidation)
		return
	}

	req, err := s.travel.Book(c.Request.Context(), c.Param("id"), currentActor(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) handleCompleteTravel(c *gin.Context) {
	req, err := s.travel.Complete(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) handleCancelTravel(c *gin.Context) {
	req, err := s.travel.Cancel(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
