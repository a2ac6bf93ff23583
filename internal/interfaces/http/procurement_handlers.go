package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/service"
)

func (s *Server) handleCreateMaterial(c *gin.Context) {
	var in service.CreateMaterialInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, service.ErrValidation)
		return
	}

	req, err := s.procurement.CreateMaterialRequest(c.Request.Context(), in, currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (s *Server) handleGetMaterial(c *gin.Context) {
	req, err := s.procurement.GetMaterialRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) handleListMaterials(c *gin.Context) {
	limit, offset := pagination(c)
	reqs, err := s.procurement.ListMaterialRequests(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": reqs})
}

func (s *Server) handleApproveMaterial(c *gin.Context) {
	var body struct {
		Vendor   string `json:"vendor"`
		Comments string `json:"comments"`
	}
	_ = c.ShouldBindJSON(&body)

	req, po, err := s.procurement.ApproveMaterialRequest(c.Request.Context(), c.Param("id"), currentActor(c), body.Vendor, body.Comments)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req, "purchaseOrder": po})
}

func (s *Server) handleRejectMaterial(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	req, err := s.procurement.RejectMaterialRequest(c.Request.Context(), c.Param("id"), currentActor(c), body.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (s *Server) handleGetPurchaseOrder(c *gin.Context) {
	po, err := s.procurement.GetPurchaseOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (s *Server) handleListPurchaseOrders(c *gin.Context) {
	limit, offset := pagination(c)
	orders, err := s.procurement.ListPurchaseOrders(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders})
}

func (s *Server) handleReviewPurchaseOrder(c *gin.Context) {
	var in service.ReviewPOInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, service.ErrValidation)
		return
	}

	po, err := s.procurement.ReviewPurchaseOrder(c.Request.Context(), c.Param("id"), currentActor(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (s *Server) handleMarkPurchaseOrderPaid(c *gin.Context) {
	po, err := s.procurement.MarkPurchaseOrderPaid(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (s *Server) handleMarkPurchaseOrderReceived(c *gin.Context) {
	po, err := s.procurement.MarkPurchaseOrderReceived(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (s *Server) handleCancelPurchaseOrder(c *gin.Context) {
	po, err := s.procurement.CancelPurchaseOrder(c.Request.Context(), c.Param("id"), currentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

// handleExportPurchaseOrders writes a spreadsheet of every matching order
// and serves the file.
func (s *Server) handleExportPurchaseOrders(c *gin.Context) {
	orders, err := s.procurement.AllPurchaseOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	path, err := s.exporter.ExportPurchaseOrders(orders, time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(path, "purchase_orders.xlsx")
}
