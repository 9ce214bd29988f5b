package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"donation_hub/internal/bus"
	"donation_hub/internal/config"
	"donation_hub/internal/domain"
	"donation_hub/internal/http/dto"
	"donation_hub/internal/http/resp"
	"donation_hub/internal/queue"
	"donation_hub/internal/service/chat"
	"donation_hub/internal/service/comment"
	"donation_hub/internal/service/notify"
)

type Handler struct {
	cfg      *config.Config
	notify   *notify.Service
	chat     *chat.Service
	comments *comment.Service
	hub      *bus.Hub
	log      *zap.Logger
	pub      queue.Publisher
}

func NewHandler(
	cfg *config.Config,
	notifier *notify.Service,
	chatSvc *chat.Service,
	commentSvc *comment.Service,
	hub *bus.Hub,
	logger *zap.Logger,
	publisher queue.Publisher,
) *Handler {
	return &Handler{
		cfg:      cfg,
		notify:   notifier,
		chat:     chatSvc,
		comments: commentSvc,
		hub:      hub,
		log:      logger,
		pub:      publisher,
	}
}

// respondError maps the error taxonomy onto HTTP.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Code: resp.CodeForbidden, Message: "forbidden"})
	case errors.Is(err, domain.ErrInvalidItemKind):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid item kind"})
	case errors.Is(err, domain.ErrEmptyContent):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "content required"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: message})
}
