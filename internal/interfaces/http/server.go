// Package http is the HTTP adapter: it translates requests into application
// service calls and service errors into the wire error envelope.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/application/ledger"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/port"
	"github.com/EmmaDeil/steps-ops-backend/internal/application/service"
	"github.com/EmmaDeil/steps-ops-backend/internal/report"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	router     *gin.Engine
	httpServer *http.Server

	leave       *service.LeaveService
	travel      *service.TravelService
	procurement *service.ProcurementService
	policy      *service.PolicyService
	ledger      *ledger.Ledger
	audits      port.AuditRepository
	exporter    *report.Exporter

	logger *zap.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(
	config ServerConfig,
	leave *service.LeaveService,
	travel *service.TravelService,
	procurement *service.ProcurementService,
	policy *service.PolicyService,
	ldg *ledger.Ledger,
	audits port.AuditRepository,
	exporter *report.Exporter,
	logger *zap.Logger,
) *Server {
	router := gin.New()

	s := &Server{
		config:      config,
		router:      router,
		leave:       leave,
		travel:      travel,
		procurement: procurement,
		policy:      policy,
		ledger:      ldg,
		audits:      audits,
		exporter:    exporter,
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	api.Use(actorMiddleware())
	{
		leave := api.Group("/leave-requests")
		{
			leave.POST("", s.handleCreateLeave)
			leave.GET("", s.handleListLeave)
			leave.GET("/:id", s.handleGetLeave)
			leave.POST("/:id/manager-approve", s.leaveDecision("manager", true))
			leave.POST("/:id/manager-reject", s.leaveDecision("manager", false))
			leave.POST("/:id/hr-approve", s.leaveDecision("hr", true))
			leave.POST("/:id/hr-reject", s.leaveDecision("hr", false))
		}

		travel := api.Group("/travel-requests")
		{
			travel.POST("", s.handleCreateTravel)
			travel.GET("", s.handleListTravel)
			travel.GET("/:id", s.handleGetTravel)
			travel.POST("/:id/manager-approve", s.travelDecision(true))
			travel.POST("/:id/manager-reject", s.travelDecision(false))
			travel.POST("/:id/book", s.handleBookTravel)
			travel.POST("/:id/complete", s.handleCompleteTravel)
			travel.POST("/:id/cancel", s.handleCancelTravel)
		}

		materials := api.Group("/material-requests")
		{
			materials.POST("", s.handleCreateMaterial)
			materials.GET("", s.handleListMaterials)
			materials.GET("/:id", s.handleGetMaterial)
			materials.POST("/:id/approve", s.handleApproveMaterial)
			materials.POST("/:id/reject", s.handleRejectMaterial)
		}

		orders := api.Group("/purchase-orders")
		{
			orders.GET("", s.handleListPurchaseOrders)
			orders.GET("/export", s.handleExportPurchaseOrders)
			orders.GET("/:id", s.handleGetPurchaseOrder)
			orders.POST("/:id/review", s.handleReviewPurchaseOrder)
			orders.POST("/:id/mark-paid", s.handleMarkPurchaseOrderPaid)
			orders.POST("/:id/mark-received", s.handleMarkPurchaseOrderReceived)
			orders.POST("/:id/cancel", s.handleCancelPurchaseOrder)
		}

		policies := api.Group("/policies")
		{
			policies.POST("", s.handleCreatePolicy)
			policies.GET("", s.handleListPolicies)
			policies.GET("/:id", s.handleGetPolicy)
			policies.POST("/:id/submit", s.handleSubmitPolicy)
			policies.POST("/:id/approve", s.handleApprovePolicy)
			policies.POST("/:id/reject", s.handleRejectPolicy)
			policies.POST("/:id/document", s.handleUpdatePolicyDocument)
			policies.POST("/:id/restore", s.handleRestorePolicyVersion)
		}

		api.GET("/leave-allocations/:employeeId/:year", s.handleGetAllocation)
		api.PUT("/leave-allocations/:employeeId/:year", s.handlePutAllocation)

		api.GET("/audit-records", s.handleListAuditRecords)
	}
}

// Start begins serving. Blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Actor-Id, X-Actor-Role")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
