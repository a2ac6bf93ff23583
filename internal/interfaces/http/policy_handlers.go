package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/service"
)

func (s *Server) handleCreatePolicy(c *gin.Context) {
	var in service.CreatePolicyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, service.ErrValidation)
		return
	}

	p, err := s.policy.Create(c.Request.Context(), in, currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) handleGetPolicy(c *gin.Context) {
	p, err := s.policy.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleListPolicies(c *gin.Context) {
	limit, offset := pagination(c)
	policies, err := s.policy.List(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": policies})
}

func (s *Server) handleSubmitPolicy(c *gin.Context) {
	p, err := s.policy.Submit(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleApprovePolicy(c *gin.Context) {
	var body struct {
		ApprovedBy string `json:"approvedBy"`
	}
	_ = c.ShouldBindJSON(&body)

	p, err := s.policy.Approve(c.Request.Context(), c.Param("id"), currentActor(c), body.ApprovedBy)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleRejectPolicy(c *gin.Context) {
	p, err := s.policy.Reject(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpdatePolicyDocument(c *gin.Context) {
	var in service.PolicyDocumentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, service.ErrValidation)
		return
	}

	p, err := s.policy.UpdateDocument(c.Request.Context(), c.Param("id"), in, currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleRestorePolicyVersion(c *gin.Context) {
	var body struct {
		Version string `json:"version"`
		Author  string `json:"author"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Version == "" {
		writeError(c, service.ErrValidation)
		return
	}

	p, err := s.policy.RestoreVersion(c.Request.Context(), c.Param("id"), body.Version, body.Author, currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
