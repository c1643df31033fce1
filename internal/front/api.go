package front

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/log"
	"multi-git-dashboard/internal/utils"
)

//go:embed web/templates/*.html
var templatesFS embed.FS

//go:embed web/static
var staticFS embed.FS

var (
	config     Config
	engine     *gin.Engine
	downstream *Downstream
)

func setCors() {
	corsconfig := cors.DefaultConfig()
	corsconfig.AllowOrigins = config.AllowedOrigins
	corsconfig.AllowMethods = config.AllowedMethods
	corsconfig.AllowHeaders = config.AllowedHeaders
	engine.Use(cors.New(corsconfig))
}

var funcMap = template.FuncMap{
	"add": func(a, b any) float64 {
		return utils.ToFloat64(a) + utils.ToFloat64(b)
	},
	"sub": func(a, b any) float64 {
		return utils.ToFloat64(a) - utils.ToFloat64(b)
	},
	"mul": func(a, b any) float64 {
		return utils.ToFloat64(a) * utils.ToFloat64(b)
	},
	"div": func(a, b any) float64 {
		if utils.ToFloat64(b) == 0 {
			return 0
		}

		return utils.ToFloat64(a) / utils.ToFloat64(b)
	},
	"pct": utils.Percent,
	"fmtf": func(v any) string {
		return fmt.Sprintf("%.1f", utils.ToFloat64(v))
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02 Jan 2006")
	},
	"lower": strings.ToLower,
}

func setTemplateEngine(r *gin.Engine) {
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(funcMap).ParseFS(templatesFS, "web/templates/*.html")))
}

func setRoutes(r *gin.Engine) {
	static, err := fs.Sub(staticFS, "web/static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/healthz", func(c *gin.Context) {
		respondInFormat(c, gin.H{"status": "alive"}, "health.html")
	})

	courses := r.Group("/courses")
	{
		courses.GET("/:id", handleCourse)
		courses.GET("/:id/teams/:teamId/pm", handleTeamPM)
	}

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "bad path"})
	})
}

// newRouter builds the frontend engine around d.
func newRouter(d *Downstream) *gin.Engine {
	downstream = d

	r := gin.New()
	r.Use(gin.Recovery())
	setTemplateEngine(r)
	setRoutes(r)

	return r
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

	engine = gin.New()
	engine.Use(gin.Recovery(), gin.Logger())
	setCors()
	downstream = &Downstream{
		APIBase: config.APIAddress,
		Client:  &http.Client{Timeout: time.Duration(config.RequestTimeout) * time.Second},
	}
	setTemplateEngine(engine)
	setRoutes(engine)

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
	log.Logger.Info("frontend listening", zap.String("port", config.Port), zap.String("api", config.APIAddress))

	<-ctx.Done()

	stop()
	log.Logger.Info("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Logger.Error("server forced to shutdown", zap.Error(err))
	}

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

// respondInFormat renders templateName unless ?format=json asks for the
// view-model itself.
func respondInFormat(c *gin.Context, data any, templateName string) {
	switch strings.ToLower(c.DefaultQuery("format", "html")) {
	case "json":
		c.JSON(http.StatusOK, data)
	case "xml":
		c.XML(http.StatusOK, data)
	default:
		if templateName == "" {
			c.JSON(http.StatusOK, data)
			return
		}
		c.HTML(http.StatusOK, templateName, data)
	}
}
