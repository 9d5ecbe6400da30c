package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"kgc/registry-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams validates the page/size query parameters. Page starts at 1,
// size is capped at 100.
func pageParams(c *gin.Context) (page, size int, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "page must be a positive integer",
			"requestID": c.GetString("requestID"),
		})
		return 0, 0, false
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 || size > maxPageSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "size must be between 1 and 100",
			"requestID": c.GetString("requestID"),
		})
		return 0, 0, false
	}

	return page, size, true
}

// applyProfileFilters narrows a listing query by the optional search
// parameters. State, district, mandal and surname match exactly; gothram
// and desired_name match as case-insensitive substrings.
func applyProfileFilters(c *gin.Context, q *gorm.DB) *gorm.DB {
	exact := map[string]string{
		"current_state":    c.Query("state"),
		"current_district": c.Query("district"),
		"current_mandal":   c.Query("mandal"),
		"surname":          c.Query("surname"),
	}
	for column, value := range exact {
		if value != "" {
			q = q.Where(column+" = ?", value)
		}
	}

	substring := map[string]string{
		"gothram":      c.Query("gothram"),
		"desired_name": c.Query("desired_name"),
	}
	for column, value := range substring {
		if value != "" {
			q = q.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(value)+"%")
		}
	}

	return q
}

func paginatedResponse(page, size int, total int64, data any) gin.H {
	return gin.H{
		"page":          page,
		"size":          size,
		"total_records": total,
		"total_pages":   int(math.Ceil(float64(total) / float64(size))),
		"data":          data,
	}
}

// AdminPendingUsers lists pending (and on-hold) registrations, newest
// first.
func (a *API) AdminPendingUsers(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	page, size, ok := pageParams(c)
	if !ok {
		return
	}

	q := a.DB.Model(&model.PendingUser{})
	q = applyProfileFilters(c, q)

	// Defaults to the pending queue; pass status=hold for parked records
	// or status=all for both.
	if status := c.DefaultQuery("status", model.StatusPending); status != "all" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		zap.L().Error("Failed to count pending users", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while listing registrations",
			"requestID": requestID,
		})
		return
	}

	var users []model.PendingUser
	err := q.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error
	if err != nil {
		zap.L().Error("Failed to list pending users", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while listing registrations",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(page, size, total, users))
}

// AdminApprovedUsers lists approved members, most recently approved first.
func (a *API) AdminApprovedUsers(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	page, size, ok := pageParams(c)
	if !ok {
		return
	}

	q := a.DB.Model(&model.VerifiedUser{})
	q = applyProfileFilters(c, q)

	if regID := c.Query("registration_id"); regID != "" {
		q = q.Where("registration_id = ?", regID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		zap.L().Error("Failed to count approved users", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while listing members",
			"requestID": requestID,
		})
		return
	}

	var users []model.VerifiedUser
	err := q.Order("approved_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error
	if err != nil {
		zap.L().Error("Failed to list approved users", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while listing members",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, paginatedResponse(page, size, total, users))
}

// AdminUserDetail returns a single pending registration in full.
func (a *API) AdminUserDetail(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var user model.PendingUser
	err := a.DB.First(&user, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "user not found",
				"requestID": requestID,
			})
			return
		}

		zap.L().Error("Failed to load pending user", zap.Error(err), zap.String("requestID", requestID))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Something went wrong while loading the registration",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, user)
}
