package api

import (
	"encoding/csv"
	"net/http"
	"strings"

	"kgc/registry-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const exportDateFormat = "02-01-2006 15:04"

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinAddress(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func startCSVDownload(c *gin.Context, filename string) *csv.Writer {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	return csv.NewWriter(c.Writer)
}

// AdminExportPending streams the pending registrations as CSV, honoring
// the same filters as the pending listing.
func (a *API) AdminExportPending(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	q := a.DB.Model(&model.PendingUser{})
	q = applyProfileFilters(c, q)

	if status := c.DefaultQuery("status", model.StatusPending); status != "all" {
		q = q.Where("status = ?", status)
	}

	var users []model.PendingUser
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		zap.L().Error("Failed to export pending users", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while exporting registrations",
			"requestID": requestID,
		})
		return
	}

	w := startCSVDownload(c, "users_export.csv")

	w.Write([]string{
		"Registration ID", "Full Name", "Mothers Maiden Name as Surname",
		"Gothram", "Mobile", "Email", "Current Address", "Current State",
		"Current District", "Current Mandal", "Current Pincode", "Status",
		"Registered Date", "Approved Date",
	})

	for i := range users {
		u := &users[i]

		w.Write([]string{
			u.RegistrationID,
			u.FullName,
			u.Surname,
			u.Gothram,
			deref(u.MobileNumber),
			deref(u.Email),
			joinAddress(u.CurrentHouseNumber, u.CurrentVillageCity),
			u.CurrentState,
			u.CurrentDistrict,
			u.CurrentMandal,
			u.CurrentPinCode,
			u.Status,
			u.CreatedAt.Format(exportDateFormat),
			"",
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		zap.L().Warn("Pending users export interrupted", zap.Error(err), zap.String("requestID", requestID))
	}
}

// AdminExportApproved streams the approved member roster as CSV.
func (a *API) AdminExportApproved(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var users []model.VerifiedUser
	if err := a.DB.Order("approved_at DESC").Find(&users).Error; err != nil {
		zap.L().Error("Failed to export approved users", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while exporting members",
			"requestID": requestID,
		})
		return
	}

	w := startCSVDownload(c, "approved_users.csv")

	w.Write([]string{
		"Membership ID", "Registration ID", "Full Name",
		"Mothers Maiden Name as Surname", "Desired Name", "Gothram",
		"Mobile", "Email", "Current House No", "Current Village / City",
		"Current Mandal", "Current District", "Current State",
		"Current Country", "Current Pincode", "Approved By", "Approved Date",
	})

	for i := range users {
		u := &users[i]

		w.Write([]string{
			u.MembershipID,
			u.RegistrationID,
			u.FullName,
			u.Surname,
			u.DesiredName,
			u.Gothram,
			deref(u.MobileNumber),
			deref(u.Email),
			u.CurrentHouseNumber,
			u.CurrentVillageCity,
			u.CurrentMandal,
			u.CurrentDistrict,
			u.CurrentState,
			u.CurrentCountry,
			u.CurrentPinCode,
			u.ApprovedBy,
			u.ApprovedAt.Format(exportDateFormat),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		zap.L().Warn("Approved users export interrupted", zap.Error(err), zap.String("requestID", requestID))
	}
}
