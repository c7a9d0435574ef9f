package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nonthaphat-dev/lendwatch/internal/domain"
	"github.com/nonthaphat-dev/lendwatch/internal/service/renewal"
)

type RenewalHandler struct {
	renewalService *renewal.Service
}

func NewRenewalHandler(renewalService *renewal.Service) *RenewalHandler {
	return &RenewalHandler{renewalService: renewalService}
}

type createRenewalRequest struct {
	LoanID  int64  `json:"loan_id" binding:"required"`
	OldDue  string `json:"old_due" binding:"required"`
	NewDue  string `json:"new_due" binding:"required"`
	Reason  string `json:"reason"`
	ActorID int64  `json:"actor_id" binding:"required"`
}

func (h *RenewalHandler) HandleCreate(c *gin.Context) {
	var req createRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "loan_id, old_due, new_due and actor_id are required")
		return
	}

	oldDue, err := time.Parse(time.RFC3339, req.OldDue)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid old_due time format, expected RFC3339")
		return
	}
	newDue, err := time.Parse(time.RFC3339, req.NewDue)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid new_due time format, expected RFC3339")
		return
	}

	created, err := h.renewalService.Create(c.Request.Context(), req.LoanID, oldDue, newDue, req.Reason, req.ActorID)
	switch {
	case errors.Is(err, domain.ErrRenewalWindowInvalid):
		respondError(c, http.StatusBadRequest, "new due date must be after the current one")
	case errors.Is(err, domain.ErrRenewalPending):
		respondError(c, http.StatusConflict, "loan already has a pending renewal")
	case errors.Is(err, domain.ErrLoanNotFound):
		respondError(c, http.StatusNotFound, "loan not found")
	case err != nil:
		respondError(c, http.StatusInternalServerError, err.Error())
	default:
		c.JSON(http.StatusCreated, gin.H{
			"renewal_id": created.ID,
			"status":     string(created.Status),
		})
	}
}

type decideRenewalRequest struct {
	Approve    *bool `json:"approve" binding:"required"`
	ApproverID int64 `json:"approver_id" binding:"required"`
}

func (h *RenewalHandler) HandleDecide(c *gin.Context) {
	renewalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || renewalID <= 0 {
		respondError(c, http.StatusBadRequest, "renewal id must be a positive integer")
		return
	}

	var req decideRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "approve and approver_id are required")
		return
	}

	decided, err := h.renewalService.Decide(c.Request.Context(), renewalID, *req.Approve, req.ApproverID)
	switch {
	case errors.Is(err, domain.ErrRenewalNotFound):
		respondError(c, http.StatusNotFound, "renewal not found or already decided")
	case errors.Is(err, domain.ErrLoanNotFound):
		respondError(c, http.StatusNotFound, "loan not found")
	case err != nil:
		respondError(c, http.StatusInternalServerError, err.Error())
	default:
		c.JSON(http.StatusOK, gin.H{
			"renewal_id": decided.ID,
			"status":     string(decided.Status),
		})
	}
}

func (h *RenewalHandler) HandlePending(c *gin.Context) {
	summaries, err := h.renewalService.PendingSummaries(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	type pendingItem struct {
		RenewalID     int64  `json:"renewal_id"`
		LoanID        int64  `json:"loan_id"`
		BorrowerID    int64  `json:"borrower_id"`
		EquipmentID   int64  `json:"equipment_id"`
		EquipmentName string `json:"equipment_name"`
		StartAt       string `json:"start_at"`
		OldDue        string `json:"old_due"`
		NewDue        string `json:"new_due"`
		Reason        string `json:"reason"`
		CreatedAt     string `json:"created_at"`
	}

	items := make([]pendingItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, pendingItem{
			RenewalID:     s.RenewalID,
			LoanID:        s.LoanID,
			BorrowerID:    s.BorrowerID,
			EquipmentID:   s.EquipmentID,
			EquipmentName: s.EquipmentName,
			StartAt:       s.StartAt.Format(time.RFC3339),
			OldDue:        s.OldDue.Format(time.RFC3339),
			NewDue:        s.NewDue.Format(time.RFC3339),
			Reason:        s.Reason,
			CreatedAt:     s.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"renewals": items,
		"count":    len(items),
	})
}
