package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"donation_hub/internal/http/dto"
	"donation_hub/internal/http/middleware"
	"donation_hub/internal/http/resp"
	"donation_hub/internal/model"
)

// ListNotifications is the authoritative snapshot for the caller, newest
// first. Clients fetch it on connect and dedup live pushes against it by id.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID := middleware.UserID(c)
	list, err := h.notify.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []model.Notification{}
	}
	c.JSON(http.StatusOK, list)
}

// ListAdminNotifications returns the cohort snapshot (rows with no target
// user), for the admin dashboard.
func (h *Handler) ListAdminNotifications(c *gin.Context) {
	list, err := h.notify.ListForAdmins(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []model.Notification{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid notification id")
		return
	}
	if err := h.notify.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Code: resp.CodeOK, Message: "read"})
}

func (h *Handler) MarkNotificationsReadByItems(c *gin.Context) {
	var req dto.MarkItemsReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if len(req.ItemIDs) == 0 {
		badRequest(c, "item_ids required")
		return
	}
	if err := h.notify.MarkReadForItems(c.Request.Context(), req.ItemIDs); err != nil {
		h.log.Error("mark read by items failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Code: resp.CodeOK, Message: "read"})
}
