package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/leadsonline"
	"bitbucket.org/mmdatafocus/pawnshop_backend/middlewares"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models/reports"
	"bitbucket.org/mmdatafocus/pawnshop_backend/shopify"
	"bitbucket.org/mmdatafocus/pawnshop_backend/utils"
	"bitbucket.org/mmdatafocus/pawnshop_backend/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("pawnshop-backend")

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func getRedisClient(redisAddress string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	return client
}

// registerValidations installs enum checks on gin's validator engine so
// binding tags can reject bad enum values before a handler runs.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("holdchoice", func(fl validator.FieldLevel) bool {
		return models.HoldChoice(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("idtype", func(fl validator.FieldLevel) bool {
		return models.IdType(fl.Field().String()).Valid()
	})
}

// respondError maps sentinel errors to HTTP statuses. State-machine guards
// are conflicts, missing rows are 404, gateway problems point at the
// dependency, everything else is the caller's fault.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrIntakeNotDraft),
		errors.Is(err, models.ErrIntakeNotReady),
		errors.Is(err, models.ErrItemNotOnHold),
		errors.Is(err, models.ErrHoldNotExpired),
		errors.Is(err, models.ErrItemNotCleared):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, leadsonline.ErrConfigMissing),
		errors.Is(err, shopify.ErrConfigMissing):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, leadsonline.ErrTransport),
		errors.Is(err, shopify.ErrTransport):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"fields": utils.ProcessValidationErrors(validationErrors),
			})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	return true
}

func paramInt(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil || value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return value, true
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}
		result, err := models.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := models.Logout(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": ok})
	}
}

func searchCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results := models.SearchCustomers(c.Request.Context(), c.Query("q"))
		c.JSON(http.StatusOK, results)
	}
}

func createCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.NewCustomer
		if !bindJSON(c, &req) {
			return
		}
		customer, err := models.CreateCustomer(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

func getCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		customer, err := models.GetCustomer(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func updateCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		var req models.NewCustomer
		if !bindJSON(c, &req) {
			return
		}
		customer, err := models.UpdateCustomer(c.Request.Context(), id, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

type setBannedRequest struct {
	Banned *bool `json:"banned" binding:"required"`
}

func setCustomerBannedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		var req setBannedRequest
		if !bindJSON(c, &req) {
			return
		}
		customer, err := models.SetCustomerBanned(c.Request.Context(), id, *req.Banned)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

type createIntakeRequest struct {
	CustomerId int `json:"customer_id" binding:"required"`
}

func createIntakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createIntakeRequest
		if !bindJSON(c, &req) {
			return
		}
		intake, err := models.CreateIntake(c.Request.Context(), req.CustomerId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, intake)
	}
}

func listIntakesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.DefaultQuery("status", string(models.IntakeStatusDraft))
		var (
			intakes []*models.Intake
			err     error
		)
		switch models.IntakeStatus(status) {
		case models.IntakeStatusDraft:
			intakes, err = models.ListDraftIntakes(c.Request.Context())
		case models.IntakeStatusCompleted:
			intakes, err = models.ListCompletedIntakes(c.Request.Context())
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be draft or completed"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, intakes)
	}
}

func getIntakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		intake, err := models.GetIntake(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, intake)
	}
}

type completeIntakeRequest struct {
	HoldChoice models.HoldChoice `json:"hold_choice" binding:"required,holdchoice"`
	CustomDate *time.Time        `json:"custom_date"`
}

func completeIntakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		var req completeIntakeRequest
		if !bindJSON(c, &req) {
			return
		}
		expiry, err := workflow.HoldExpiry(req.HoldChoice, req.CustomDate, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		intake, err := workflow.CompleteIntake(c.Request.Context(), id, expiry)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, intake)
	}
}

func reportIntakeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "leadsonline.Submit")
		defer span.End()
		result, err := leadsonline.Submit(ctx, id)
		if err != nil {
			span.RecordError(err)
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func addItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		intakeId, ok := paramInt(c, "id")
		if !ok {
			return
		}
		var req models.NewItem
		if !bindJSON(c, &req) {
			return
		}
		item, err := models.AddItem(c.Request.Context(), intakeId, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func getItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		item, err := models.GetItem(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func updateItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		var req models.NewItem
		if !bindJSON(c, &req) {
			return
		}
		item, err := models.UpdateItem(c.Request.Context(), id, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func deleteItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		if err := models.DeleteItem(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func releaseItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		item, err := workflow.ReleaseItem(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func publishItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		ctx, span := tracer.Start(c.Request.Context(), "shopify.PublishItem")
		defer span.End()
		result, err := shopify.PublishItem(ctx, id, shopify.PassThroughPricing)
		if err != nil {
			span.RecordError(err)
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

type addItemImageRequest struct {
	StoragePath string `json:"storage_path" binding:"required"`
}

func addItemImageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		itemId, ok := paramInt(c, "id")
		if !ok {
			return
		}
		var req addItemImageRequest
		if !bindJSON(c, &req) {
			return
		}
		image, err := models.AddItemImage(c.Request.Context(), itemId, req.StoragePath)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, image)
	}
}

func listItemImagesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		itemId, ok := paramInt(c, "id")
		if !ok {
			return
		}
		images, err := models.GetItemImages(c.Request.Context(), itemId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, images)
	}
}

func deleteItemImageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		if err := models.DeleteItemImage(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func setPrimaryImageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt(c, "id")
		if !ok {
			return
		}
		image, err := models.SetPrimaryImage(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, image)
	}
}

func inventoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		status := models.ItemStatus(c.Query("status"))

		result, err := models.PaginateInventory(c.Request.Context(), c.Query("q"), status, page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func holdQueueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := models.GetHoldQueue(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func dashboardStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := models.GetDashboardStats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func dashboardActivityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		activity, err := models.GetRecentActivity(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, activity)
	}
}

func catalogCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.ItemCategories)
	}
}

func catalogConditionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.ItemConditions)
	}
}

func catalogBrandsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		brands, err := models.DistinctBrands(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, brands)
	}
}

func catalogModelsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		brand := c.Param("brand")
		if brand == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "brand is required"})
			return
		}
		modelNames, err := models.DistinctModelsForBrand(c.Request.Context(), brand)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, modelNames)
	}
}

func holdRegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := reports.ExportHoldRegister(c.Request.Context(), c.Writer); err != nil {
			respondError(c, err)
			return
		}
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination.
	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	registerValidations()

	// Start the HTTP server ASAP so Cloud Run considers the revision healthy.
	// Until DB/Redis are ready, we return 503 for app endpoints.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow Cloud Run startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate critical endpoints on dependency readiness.
		if config.GetDB() == nil || config.GetRedisDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS:
	// - In production, require explicit allowlist via CORS_ALLOWED_ORIGINS (comma-separated).
	// - In non-production, allow all (developer convenience).
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			// Safer default: deny all if not configured in production.
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		client := getRedisClient(os.Getenv("REDIS_ADDRESS"))
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(client, limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/auth/login", loginHandler())
	r.POST("/auth/logout", logoutHandler())

	api := r.Group("", middlewares.RequireAuth())
	api.GET("/customers", searchCustomersHandler())
	api.POST("/customers", createCustomerHandler())
	api.GET("/customers/:id", getCustomerHandler())
	api.PUT("/customers/:id", updateCustomerHandler())
	api.POST("/customers/:id/banned", setCustomerBannedHandler())

	api.GET("/intakes", listIntakesHandler())
	api.POST("/intakes", createIntakeHandler())
	api.GET("/intakes/:id", getIntakeHandler())
	api.POST("/intakes/:id/complete", completeIntakeHandler())
	api.POST("/intakes/:id/report", reportIntakeHandler())
	api.POST("/intakes/:id/items", addItemHandler())

	api.GET("/items/:id", getItemHandler())
	api.PUT("/items/:id", updateItemHandler())
	api.DELETE("/items/:id", deleteItemHandler())
	api.POST("/items/:id/release", releaseItemHandler())
	api.POST("/items/:id/publish", publishItemHandler())
	api.POST("/items/:id/images", addItemImageHandler())
	api.GET("/items/:id/images", listItemImagesHandler())
	api.DELETE("/images/:id", deleteItemImageHandler())
	api.POST("/images/:id/primary", setPrimaryImageHandler())

	api.GET("/inventory", inventoryHandler())
	api.GET("/hold-queue", holdQueueHandler())
	api.GET("/dashboard/stats", dashboardStatsHandler())
	api.GET("/dashboard/activity", dashboardActivityHandler())
	api.GET("/catalog/categories", catalogCategoriesHandler())
	api.GET("/catalog/conditions", catalogConditionsHandler())
	api.GET("/catalog/brands", catalogBrandsHandler())
	api.GET("/catalog/brands/:brand/models", catalogModelsHandler())
	api.GET("/reports/hold-register.xlsx", holdRegisterHandler())
	api.POST("/uploads/photos", uploadPhotoHandler())

	r.NoRoute(customNotFoundHandler)

	// Start listening immediately (Cloud Run startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	// Now DB is ready; run migrations.
	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// IMPORTANT: AutoMigrate can run DDL that blocks tables and causes 504/502 timeouts.
	// Allow disabling migrations on startup (run them as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port, "/")
	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	// Get the IP address or user identifier from the request.
	key := c.ClientIP() // Assuming IP-based rate limiting

	// Check if the key exists in Redis.
	exists, err := rl.client.Exists(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the key doesn't exist, create it and set expiry.
	if exists == 0 {
		err := rl.client.Set(c.Request.Context(), key, 1, rl.window).Err()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Next()
		return
	}

	// If the key exists, get the current count.
	count, err := rl.client.Incr(c.Request.Context(), key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	// If the count exceeds the limit, return an error response.
	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
