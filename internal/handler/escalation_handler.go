package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nonthaphat-dev/lendwatch/internal/service/escalation"
)

type EscalationHandler struct {
	escalationService *escalation.Service
}

func NewEscalationHandler(escalationService *escalation.Service) *EscalationHandler {
	return &EscalationHandler{escalationService: escalationService}
}

// HandleRunPass triggers one escalation pass outside the schedule. The pass
// goes through the same engine as scheduled ticks, so same-day idempotency
// still holds and a manual trigger can never double-alert.
func (h *EscalationHandler) HandleRunPass(c *gin.Context) {
	result, err := h.escalationService.RunPass(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"summary": result.Summary(),
	})
}
