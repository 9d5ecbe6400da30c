package api

import (
	"errors"
	"net/http"
	"strings"

	"kgc/registry-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type bulkActionRequest struct {
	UserIDs []string `json:"user_ids"`
	Reason  string   `json:"reason"`
}

// writeWorkflowError maps the workflow's sentinel errors onto HTTP
// responses. Unknown errors become a generic 500 with the detail logged,
// never echoed.
func writeWorkflowError(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "user not found",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrNotPending):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "user is not in the pending state",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrNoUsersSelected):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "no users selected",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrInvalidSelection):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "one or more selected users are missing or not pending",
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "a reason is required",
			"requestID": requestID,
		})
	default:
		zap.L().Error("Workflow action failed", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while applying the action",
			"requestID": requestID,
		})
	}
}

// AdminApprove approves a single pending registration.
func (a *API) AdminApprove(c *gin.Context) {
	adminID := c.GetString("adminID")

	membershipID, err := a.Flow.Approve(c.Param("id"), adminID)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "user approved",
		"membership_id": membershipID,
	})
}

// AdminBulkApprove approves a batch of pending registrations atomically.
func (a *API) AdminBulkApprove(c *gin.Context) {
	adminID := c.GetString("adminID")

	var req bulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "invalid request body",
			"requestID": c.GetString("requestID"),
		})
		return
	}

	var reason *string
	if r := strings.TrimSpace(req.Reason); r != "" {
		reason = &r
	}

	count, err := a.Flow.BulkApprove(req.UserIDs, adminID, reason)
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "users approved",
		"approved_count": count,
	})
}

// AdminBulkReject rejects a batch of pending registrations atomically.
// The reason is mandatory and is shared by every record in the batch.
func (a *API) AdminBulkReject(c *gin.Context) {
	adminID := c.GetString("adminID")

	var req bulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "invalid request body",
			"requestID": c.GetString("requestID"),
		})
		return
	}

	count, err := a.Flow.BulkReject(req.UserIDs, adminID, strings.TrimSpace(req.Reason))
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "users rejected",
		"rejected_count": count,
	})
}

// AdminBulkHold parks a batch of pending registrations in the hold state.
func (a *API) AdminBulkHold(c *gin.Context) {
	adminID := c.GetString("adminID")

	var req bulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "invalid request body",
			"requestID": c.GetString("requestID"),
		})
		return
	}

	count, err := a.Flow.BulkHold(req.UserIDs, adminID, strings.TrimSpace(req.Reason))
	if err != nil {
		writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "users placed on hold",
		"hold_count": count,
	})
}
