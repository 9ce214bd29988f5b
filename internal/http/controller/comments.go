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

func (h *Handler) ListComments(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}
	list, err := h.comments.ListForItem(c.Request.Context(), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []model.Comment{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateComment(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid item id")
		return
	}
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	created, err := h.comments.Create(c.Request.Context(), itemID, middleware.UserID(c), req.OwnerID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid comment id")
		return
	}
	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	updated, err := h.comments.Update(c.Request.Context(), id, middleware.UserID(c), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid comment id")
		return
	}
	if err := h.comments.Delete(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Code: resp.CodeOK, Message: "deleted"})
}
