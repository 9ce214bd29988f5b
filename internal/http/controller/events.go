package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"donation_hub/internal/domain"
	"donation_hub/internal/http/dto"
	"donation_hub/internal/http/resp"
)

// CreateEvent is the synchronous notify() seam: the CRUD side calls it right
// after committing the triggering row (donation approved, payment captured).
func (h *Handler) CreateEvent(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if req.ItemID == 0 || req.ItemKind == "" || req.Message == "" {
		badRequest(c, "item_id, item_kind, message are required")
		return
	}
	created, err := h.notify.Notify(c.Request.Context(), req.UserID, req.ItemID, req.ItemKind, req.Message)
	if err != nil {
		h.log.Error("create event failed",
			zap.Int64("item_id", req.ItemID),
			zap.String("item_kind", req.ItemKind),
			zap.Error(err),
		)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PublishEvent enqueues the same event through the broker instead of
// handling it in-process.
func (h *Handler) PublishEvent(c *gin.Context) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if req.ItemID == 0 || req.ItemKind == "" || req.Message == "" {
		badRequest(c, "item_id, item_kind, message are required")
		return
	}
	if !domain.IsValidItemKind(req.ItemKind) {
		badRequest(c, "invalid item kind")
		return
	}

	payload, err := json.Marshal(req)
	if err != nil {
		h.log.Error("publish payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish event"})
		return
	}

	prefix := h.cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "event"
	}
	routingKey := prefix + "." + req.ItemKind
	if err := h.pub.Publish(c.Request.Context(), payload, routingKey); err != nil {
		h.log.Error("publish event failed",
			zap.Int64("item_id", req.ItemID),
			zap.String("item_kind", req.ItemKind),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish event"})
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}
