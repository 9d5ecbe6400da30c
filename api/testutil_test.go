package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kgc/registry-api/db"
	"kgc/registry-api/middleware"
	"kgc/registry-api/model"
	"kgc/registry-api/pkg/security"
	"kgc/registry-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type nopNotifier struct{}

func (nopNotifier) SendApproval(email, name, membershipID string) error { return nil }

func (nopNotifier) SendRejection(email, name, registrationID, reason string) error { return nil }

// newTestAPI wires the handlers against an in-memory database, skipping
// the transports the admin surface doesn't touch.
func newTestAPI(t *testing.T) (*API, *gin.Engine) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("notify.workers", 1)
	viper.Set("notify.queue_size", 64)
	viper.Set("jwt.secret", "test-secret")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name)

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	queue := service.NewNotifyQueue()
	queue.StartWorkerPool()

	a := &API{
		DB:    conn,
		Argon: security.New(),
		Queue: queue,
		Flow:  service.NewWorkflow(conn, queue, nopNotifier{}),
	}

	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())

	r.POST("/admin/login", a.AdminLogin)
	r.GET("/admin/pending-users", a.AdminPendingUsers)
	r.GET("/admin/approved-users", a.AdminApprovedUsers)
	r.GET("/admin/user/:id", a.AdminUserDetail)
	r.POST("/admin/user/:id/approve", a.AdminApprove)
	r.POST("/admin/users/bulk-approve", a.AdminBulkApprove)
	r.POST("/admin/users/bulk-reject", a.AdminBulkReject)
	r.POST("/admin/users/bulk-hold", a.AdminBulkHold)
	r.GET("/admin/export-pending-users", a.AdminExportPending)
	r.GET("/admin/dashboard/summary", a.AdminDashboardSummary)

	return a, r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func seedPendingUsers(t *testing.T, a *API, n int) []model.PendingUser {
	t.Helper()

	users := make([]model.PendingUser, n)
	for i := 0; i < n; i++ {
		mobile := fmt.Sprintf("90000000%02d", i)

		users[i] = model.PendingUser{
			ID:             uuid.NewString(),
			RegistrationID: fmt.Sprintf("KGC-0000%04X", i),
			Channel:        model.ChannelMobile,
			MobileNumber:   &mobile,
			Profile: model.Profile{
				FullName:        fmt.Sprintf("Applicant %d", i),
				Surname:         "Rao",
				DesiredName:     fmt.Sprintf("Applicant %d", i),
				FatherOrHusband: "K. Rao",
				MotherName:      "L. Rao",
				MaritalStatus:   "single",
				Gothram:         "Bharadwaja",
				Education:       "B.Tech",
				Occupation:      "Engineer",
				CurrentDistrict: "Guntur",
				CurrentState:    "Andhra Pradesh",
				CurrentPinCode:  "522001",
				NativeDistrict:  "Guntur",
				NativeState:     "Andhra Pradesh",
				NativePinCode:   "522001",
				ReferredByName:  "M. Rao",
				ReferredMobile:  "9876500000",
			},
			Status:    model.StatusPending,
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, a.DB.Create(&users[i]).Error)
	}

	return users
}
