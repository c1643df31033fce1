package mcourse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/authmw"
	"multi-git-dashboard/internal/events"
	"multi-git-dashboard/internal/log"
	"multi-git-dashboard/internal/store"
	"multi-git-dashboard/internal/store/inmem"
)

var (
	config Config
	engine *gin.Engine
)

// mustInitStore returns the configured store and a function releasing it.
func mustInitStore() (store.Interface, func(context.Context)) {
	if config.DBDriver == "memory" {
		log.Logger.Warn("using the in-memory store, data is lost on exit")
		return inmem.New(), func(context.Context) {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := store.NewStore(ctx, config.MongoURI, config.MongoDB)
	if err != nil {
		log.Logger.Fatal("could not connect to the database", zap.Error(err))
	}
	if err := st.EnsureIndexes(ctx); err != nil {
		log.Logger.Fatal("failed to create indexes", zap.Error(err))
	}

	return st, func(ctx context.Context) {
		if err := st.Disconnect(ctx); err != nil {
			log.Logger.Error("failed to disconnect from the database", zap.Error(err))
		}
	}
}

func mustInitEvents() events.Publisher {
	if config.AmqpURI == "" {
		return events.Noop{}
	}
	pub, err := events.Dial(config.AmqpURI, config.AmqpAttempts)
	if err != nil {
		log.Logger.Fatal("could not connect to the broker", zap.Error(err))
	}
	return pub
}

func mustInitProvisioner() authmw.Provisioner {
	if config.KCAddress == "" {
		return authmw.NoopProvisioner{}
	}
	svc, err := authmw.NewService(config.KCAddress, config.Realm, config.ClientID, config.ClientSecret)
	if err != nil {
		log.Logger.Fatal("keycloak admin client failed its self test", zap.Error(err))
	}
	return svc
}

// mustInitIdentity returns the middleware resolving the caller and the guard
// for admin-only routes (nil when no guard applies).
func mustInitIdentity() (identify gin.HandlerFunc, adminOnly gin.HandlerFunc) {
	if config.AuthMode != "jwt" {
		return authmw.HeaderAuth(), nil
	}

	jwksURL := config.JWKSURL
	if jwksURL == "" {
		jwksURL = authmw.JWKSURL(config.KCAddress, config.Realm)
	}
	kcAuth, err := authmw.NewKeycloakAuth(jwksURL, config.Issuer, config.Audience, config.ClientID)
	if err != nil {
		log.Logger.Fatal("failed to load the JWKS", zap.String("url", jwksURL), zap.Error(err))
	}
	return kcAuth.Identify(), authmw.RequireRoles("admin")
}

func corsMiddleware() gin.HandlerFunc {
	corsconfig := cors.DefaultConfig()
	corsconfig.AllowOrigins = config.AllowedOrigins
	corsconfig.AllowMethods = config.AllowedMethods
	corsconfig.AllowHeaders = config.AllowedHeaders
	corsconfig.ExposeHeaders = []string{requestIDHeader}
	return cors.New(corsconfig)
}

// newRouter builds the engine. Middleware runs in the given order ahead of
// every route.
func newRouter(h *Handler, adminOnly gin.HandlerFunc, middleware ...gin.HandlerFunc) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(middleware...)
	setRoutes(r, h, adminOnly)

	return r
}

func setRoutes(r *gin.Engine, h *Handler, adminOnly gin.HandlerFunc) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})

	api := r.Group("/api")

	courses := api.Group("/courses")
	{
		courses.GET("", h.getCourses)
		courses.POST("", h.createCourse)
		courses.GET("/:id", h.getCourse)
		courses.PUT("/:id", h.updateCourse)
		courses.DELETE("/:id", h.deleteCourse)
		courses.GET("/:id/code", h.getCourseCode)

		courses.POST("/:id/students", h.addPeople(h.svc.AddStudentsToCourse,
			"Students added to the course successfully", "Failed to add students"))
		courses.POST("/:id/tas", h.addPeople(h.svc.AddTAsToCourse,
			"TAs added to the course successfully", "Failed to add TAs"))
		courses.POST("/:id/faculty", h.addPeople(h.svc.AddFacultyToCourse,
			"Faculty members added to the course successfully", "Failed to add faculty"))
		courses.DELETE("/:id/students/:userId", h.removePerson(h.svc.RemoveStudentFromCourse,
			"Student removed from the course successfully", "Failed to remove student"))
		courses.DELETE("/:id/tas/:userId", h.removePerson(h.svc.RemoveTAFromCourse,
			"TA removed from the course successfully", "Failed to remove TA"))
		courses.DELETE("/:id/faculty/:userId", h.removePerson(h.svc.RemoveFacultyFromCourse,
			"Faculty member removed from the course successfully", "Failed to remove faculty member"))

		courses.GET("/:id/people", h.getPeople)
		courses.GET("/:id/teachingteam", h.getTeachingTeam)

		courses.GET("/:id/teamsets", h.getTeamSets)
		courses.GET("/:id/teamsets/names", h.getTeamSetNames)
		courses.POST("/:id/teamsets", h.createTeamSet)
		courses.POST("/:id/teams/students", h.placeInTeams(h.svc.AddStudentsToTeams,
			"Students added to teams successfully", "Failed to add students to teams"))
		courses.POST("/:id/teams/tas", h.placeInTeams(h.svc.AddTAsToTeams,
			"TAs added to teams successfully", "Failed to add TAs to teams"))

		courses.POST("/:id/milestones", h.addMilestone)
		courses.POST("/:id/sprints", h.addSprint)

		courses.GET("/:id/assessments", h.getAssessments)
		courses.POST("/:id/assessments", h.addAssessments)
	}

	assessments := api.Group("/assessments")
	{
		assessments.GET("/:assessmentId", h.getAssessment)
		assessments.POST("/:assessmentId/results", h.uploadResults)
		assessments.PATCH("/:assessmentId/results/:resultId/marker", h.updateResultMarker)
	}

	accounts := api.Group("/accounts")
	if adminOnly != nil {
		accounts.Use(adminOnly)
	}
	{
		accounts.GET("/pending", h.getPendingAccounts)
		accounts.PATCH("/approve", h.approveAccounts)
	}

	jira := api.Group("/jira")
	{
		jira.GET("/boards/:boardId", h.getJiraBoard)
		jira.PUT("/teams/:teamId/board", h.upsertJiraBoard)
	}
}

func InitAndServe(confPath string) {
	var cfgErr error
	config, cfgErr = loadConfig(confPath)

	log.EnsureLogger(config.Verbose)
	defer log.Sync()
	if cfgErr != nil {
		log.Logger.Warn("using default configuration", zap.Error(cfgErr))
	}
	log.Logger.Info(config.toString())

	setGinMode(config.ApiGinMode)

	st, closeStore := mustInitStore()
	pub := mustInitEvents()
	identify, adminOnly := mustInitIdentity()

	svc := NewService(st, pub, mustInitProvisioner())
	engine = newRouter(NewHandler(svc), adminOnly,
		corsMiddleware(),
		writeLimiter(config.WriteRateLimit, config.WriteRateBurst),
		identify,
	)

	// serve http
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.Port),
		Handler:           engine,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Logger.Fatal("listen", zap.Error(err))
		}
	}()
	log.Logger.Info("course service listening", zap.String("port", config.Port))

	<-ctx.Done()

	stop()
	log.Logger.Info("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Logger.Error("server forced to shutdown", zap.Error(err))
	}

	if err := pub.Close(); err != nil {
		log.Logger.Warn("failed to close the event publisher", zap.Error(err))
	}
	closeStore(ctx)

	log.Logger.Info("server exiting")
}

func setGinMode(mode string) {
	switch strings.ToLower(mode) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "envgin":
		gin.SetMode(gin.EnvGinMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}
