package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"donation_hub/internal/http/dto"
	"donation_hub/internal/http/middleware"
	"donation_hub/internal/http/resp"
	"donation_hub/internal/model"
)

func (h *Handler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	senderID := middleware.UserID(c)
	if req.ReceiverID == 0 || req.ReceiverID == senderID {
		badRequest(c, "invalid receiver")
		return
	}
	message, err := h.chat.Send(c.Request.Context(), senderID, req.ReceiverID, req.Text, req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *Handler) ListConversations(c *gin.Context) {
	list, err := h.chat.Conversations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []model.Conversation{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) ListMessages(c *gin.Context) {
	conversationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid conversation id")
		return
	}
	list, err := h.chat.Messages(c.Request.Context(), middleware.UserID(c), conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []model.Message{}
	}
	c.JSON(http.StatusOK, list)
}

// MarkMessagesRead flips the read flag on the given messages and on the chat
// notifications that point at them, so the badge and the bubbles agree.
func (h *Handler) MarkMessagesRead(c *gin.Context) {
	var req dto.MarkMessagesReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if len(req.MessageIDs) == 0 {
		badRequest(c, "message_ids required")
		return
	}
	if err := h.chat.MarkRead(c.Request.Context(), middleware.UserID(c), req.MessageIDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Code: resp.CodeOK, Message: "read"})
}
