package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.temporal.io/sdk/client"

	"github.com/parcelworks/shipping-gateway/internal/application"
	"github.com/parcelworks/shipping-gateway/internal/workflows"
	apperrors "github.com/parcelworks/shipping-gateway/pkg/errors"
	"github.com/parcelworks/shipping-gateway/pkg/logging"
	"github.com/parcelworks/shipping-gateway/pkg/metrics"
)

// Handlers wires the HTTP API to the application service
type Handlers struct {
	service  *application.ShippingService
	temporal client.Client
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewHandlers creates the HTTP handlers. Temporal client may be nil.
func NewHandlers(service *application.ShippingService, temporal client.Client, m *metrics.Metrics, logger *logging.Logger) *Handlers {
	return &Handlers{
		service:  service,
		temporal: temporal,
		metrics:  m,
		logger:   logger.WithComponent("api"),
	}
}

// Register attaches all routes to the router
func (h *Handlers) Register(router *gin.Engine) {
	router.Use(h.observe)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "shipping-gateway"})
	})
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/shipments", h.createShipment)
		v1.GET("/shipments/:shipmentId", h.getShipment)
		v1.POST("/shipments/:shipmentId/rates", h.getRates)
		v1.POST("/shipments/:shipmentId/label", h.issueLabel)
		v1.POST("/shipments/:shipmentId/label/workflow", h.startLabelWorkflow)
		v1.POST("/shipments/:shipmentId/label/approval", h.signalLabelApproval)
		v1.GET("/shipments/:shipmentId/manifest", h.exportManifest)
		v1.POST("/labels/void", h.voidLabel)
		v1.POST("/addresses/validate", h.validateAddress)
	}
}

func (h *Handlers) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	duration := time.Since(start)

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	h.metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	h.metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration.Seconds())
	h.logger.HTTPRequest(c.Request.Context(), c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration, c.ClientIP())
}

func (h *Handlers) createShipment(c *gin.Context) {
	var cmd application.CreateShipmentCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	shipment, err := h.service.CreateShipment(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shipment)
}

func (h *Handlers) getShipment(c *gin.Context) {
	shipment, err := h.service.GetShipment(c.Request.Context(), c.Param("shipmentId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (h *Handlers) getRates(c *gin.Context) {
	var cmd application.GetRatesCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": err.Error()})
		return
	}
	cmd.ShipmentID = c.Param("shipmentId")

	quotes, err := h.service.GetRates(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}

func (h *Handlers) issueLabel(c *gin.Context) {
	label, err := h.service.IssueLabel(c.Request.Context(), application.IssueLabelCommand{
		ShipmentID: c.Param("shipmentId"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, label)
}

func (h *Handlers) startLabelWorkflow(c *gin.Context) {
	if h.temporal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "SERVICE_UNAVAILABLE", "message": "workflow engine not configured"})
		return
	}

	shipmentID := c.Param("shipmentId")
	input := workflows.LabelIssuanceInput{ShipmentID: shipmentID}

	run, err := h.temporal.ExecuteWorkflow(c.Request.Context(), client.StartWorkflowOptions{
		ID:        "label-issuance-" + shipmentID,
		TaskQueue: workflows.TaskQueue,
	}, workflows.LabelIssuanceWorkflow, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"workflowId": run.GetID(),
		"runId":      run.GetRunID(),
	})
}

func (h *Handlers) signalLabelApproval(c *gin.Context) {
	if h.temporal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "SERVICE_UNAVAILABLE", "message": "workflow engine not configured"})
		return
	}

	var approval workflows.LabelApproval
	if err := c.ShouldBindJSON(&approval); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	shipmentID := c.Param("shipmentId")
	err := h.temporal.SignalWorkflow(c.Request.Context(), "label-issuance-"+shipmentID, "", workflows.LabelApprovalSignal, approval)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signaled": true})
}

func (h *Handlers) voidLabel(c *gin.Context) {
	var cmd application.VoidLabelCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	if err := h.service.VoidLabel(c.Request.Context(), cmd); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"voided": true})
}

func (h *Handlers) exportManifest(c *gin.Context) {
	manifest, err := h.service.ExportManifest(c.Request.Context(), c.Param("shipmentId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manifest)
}

func (h *Handlers) validateAddress(c *gin.Context) {
	var cmd application.ValidateAddressCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": err.Error()})
		return
	}

	suggestions, err := h.service.ValidateAddress(c.Request.Context(), cmd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.FromDomain(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.WithError(err).ErrorContext(c.Request.Context(), "Request failed",
			"path", c.Request.URL.Path)
	}
	c.JSON(appErr.HTTPStatus, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"details": appErr.Details,
	})
}
