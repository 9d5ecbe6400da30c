// Package api contains all endpoints available
package api

import (
	"fmt"
	"slices"
	"time"

	"kgc/registry-api/db"
	"kgc/registry-api/middleware"
	"kgc/registry-api/model"
	"kgc/registry-api/pkg/security"
	"kgc/registry-api/service"
	"kgc/registry-api/storage"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
	S3     *storage.S3Client
	Queue  *service.NotifyQueue

	OTP  *service.OTPManager
	Reg  *service.Registrar
	Flow *service.Workflow
}

func NewRouter() (*API, error) {
	makeLogger()

	a := &API{
		Queue: service.NewNotifyQueue(),
		Argon: security.New(),
	}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = database

	s3, err := storage.NewS3()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}
	a.S3 = s3

	mailer := service.NewMailer()
	dispatch := &service.ChannelDispatcher{
		Mailer: mailer,
		SMS:    service.NewSMSClient(),
	}

	a.OTP = service.NewOTPManager(database, a.Queue, dispatch)
	a.Reg = service.NewRegistrar(database, service.NewPDFRenderer(), s3)
	a.Flow = service.NewWorkflow(database, a.Queue, mailer)

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("adminID"); v != "" {
					fields = append(fields, zap.String("admin_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	a.Router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware()
	reviewer := middleware.RequireRoles(middleware.ReviewerRoles...)
	publicLimit := middleware.NewRateLimiter(5, 10)

	v1 := router.Group("/api/v1")
	{
		// GET /api/v1/healthz		-> Used to check if the server is alive
		v1.GET("/healthz", a.Healthz)
	}

	auth := v1.Group("/auth", publicLimit, middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/v1/auth/send-otp 	-> Issues a passcode over SMS or email
		auth.POST("/send-otp", a.OTPSend)

		// POST /api/v1/auth/verify-otp	-> Validates a submitted passcode
		auth.POST("/verify-otp", a.OTPVerify)
	}

	users := v1.Group("/users", publicLimit, middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/v1/users/register	-> Submits a registration application
		users.POST("/register", a.UserRegister)
	}

	upload := v1.Group("/upload", publicLimit)
	{
		// POST /api/v1/upload/photo	-> Uploads the applicant photo
		upload.POST("/photo", middleware.BodySizeLimiter(10<<20), a.PhotoUpload)
	}

	admin := v1.Group("/admin")
	{
		// POST /api/v1/admin/login			-> Issues an admin bearer token
		admin.POST("/login", middleware.BodySizeLimiter(1<<20), a.AdminLogin)

		gated := admin.Group("", jwt, reviewer)
		{
			// GET /api/v1/admin/pending-users	-> Paginated, filterable pending listing
			gated.GET("/pending-users", a.AdminPendingUsers)

			// GET /api/v1/admin/approved-users	-> Paginated, filterable approved listing
			gated.GET("/approved-users", a.AdminApprovedUsers)

			// GET /api/v1/admin/user/:id		-> Single pending record detail
			gated.GET("/user/:id", a.AdminUserDetail)

			// POST /api/v1/admin/user/:id/approve	-> Approves one pending user
			gated.POST("/user/:id/approve", a.AdminApprove)

			// POST /api/v1/admin/users/bulk-approve
			gated.POST("/users/bulk-approve", a.AdminBulkApprove)

			// POST /api/v1/admin/users/bulk-reject
			gated.POST("/users/bulk-reject", a.AdminBulkReject)

			// POST /api/v1/admin/users/bulk-hold
			gated.POST("/users/bulk-hold", a.AdminBulkHold)

			// GET /api/v1/admin/export-pending-users	-> CSV download
			gated.GET("/export-pending-users", a.AdminExportPending)

			// GET /api/v1/admin/export-approved-users	-> CSV download
			gated.GET("/export-approved-users", a.AdminExportApproved)

			// GET /api/v1/admin/dashboard/summary	-> Aggregate counts
			gated.GET("/dashboard/summary", a.AdminDashboardSummary)
		}
	}

	a.Queue.StartWorkerPool()

	return a, nil
}

// SeedAdmin is only referenced by the --seed-admin startup path but
// lives here so the API owns every write to admin_users.
func (a *API) SeedAdmin(username, password, role string) error {
	if !slices.Contains([]string{model.RoleSuperAdmin, model.RoleVerifier, model.RoleReadonly}, role) {
		return fmt.Errorf("unknown role %q", role)
	}

	hash, err := a.Argon.GenerateFromPassword(password)
	if err != nil {
		return err
	}

	admin := model.AdminUser{
		ID:           newID(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}

	return a.DB.Create(&admin).Error
}

func makeLogger() {
	level, err := zapcore.ParseLevel(viper.GetString("app.log_level"))
	if err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
