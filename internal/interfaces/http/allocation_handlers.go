package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/service"
)

func (s *Server) handleGetAllocation(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		writeError(c, service.ErrValidation)
		return
	}

	alloc, err := s.ledger.Balance(c.Request.Context(), c.Param("employeeId"), year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}

// handlePutAllocation provisions or replaces the granted counters for an
// employee/year. Used counters are preserved.
func (s *Server) handlePutAllocation(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		writeError(c, service.ErrValidation)
		return
	}

	var body struct {
		AnnualLeave   int `json:"annualLeave"`
		SickLeave     int `json:"sickLeave"`
		PersonalLeave int `json:"personalLeave"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, service.ErrValidation)
		return
	}
	if body.AnnualLeave < 0 || body.SickLeave < 0 || body.PersonalLeave < 0 {
		writeError(c, service.ErrValidation)
		return
	}

	alloc, err := s.ledger.Grant(c.Request.Context(), c.Param("employeeId"), year,
		body.AnnualLeave, body.SickLeave, body.PersonalLeave)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}

func (s *Server) handleListAuditRecords(c *gin.Context) {
	entityType := c.Query("entityType")
	entityID := c.Query("entityId")
	if entityType == "" || entityID == "" {
		writeError(c, service.ErrValidation)
		return
	}

	records, err := s.audits.ListByEntity(c.Request.Context(), entityType, entityID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}
