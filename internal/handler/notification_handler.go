package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
	"github.com/nonthaphat-dev/lendwatch/internal/service/inbox"
)

type NotificationHandler struct {
	inboxService *inbox.Service
}

func NewNotificationHandler(inboxService *inbox.Service) *NotificationHandler {
	return &NotificationHandler{inboxService: inboxService}
}

// HandleList returns the recipient's inbox. By default only unread entries
// come back, capped for the dropdown; all=1 returns the full history.
func (h *NotificationHandler) HandleList(c *gin.Context) {
	recipientID, err := strconv.ParseInt(c.Query("recipient_id"), 10, 64)
	if err != nil || recipientID <= 0 {
		respondError(c, http.StatusBadRequest, "recipient_id must be a positive integer")
		return
	}

	includeRead := c.Query("all") == "1"

	rendered, err := h.inboxService.List(c.Request.Context(), recipientID, includeRead)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": rendered,
		"count":         len(rendered),
	})
}

type dismissRequest struct {
	RecipientID int64 `json:"recipient_id" binding:"required"`
}

// HandleDismiss marks one notification read. The recipient in the request
// body must own the notification; anyone else gets a 404, not someone
// else's alert state.
func (h *NotificationHandler) HandleDismiss(c *gin.Context) {
	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || notificationID <= 0 {
		respondError(c, http.StatusBadRequest, "notification id must be a positive integer")
		return
	}

	var req dismissRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "recipient_id is required")
		return
	}

	err = h.inboxService.Dismiss(c.Request.Context(), notificationID, req.RecipientID)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		respondError(c, http.StatusNotFound, "notification not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "dismissed"})
}
