package web

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Options struct {
	// OpenapiContent is served on /openapi.json and drives request validation
	OpenapiContent []byte

	// OwnBodyValidation lists document paths whose handlers bind and
	// validate the request body themselves
	OwnBodyValidation []string

	// StaticDir is served for GET requests no route claims
	StaticDir string

	Production bool
}

// RouteRegistrar adds domain routes to the engine.
type RouteRegistrar func(router gin.IRouter)

func SetupRouter(log *zerolog.Logger, options Options, registrars ...RouteRegistrar) *gin.Engine {
	startTime := time.Now()

	if options.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	var validator gin.HandlerFunc
	if len(options.OpenapiContent) > 0 {
		openapiRouter, err := LoadOpenapi(options.OpenapiContent)
		if err != nil {
			log.Warn().Err(err).Msg("OpenAPI document invalid, request validation disabled")
		}
		validator = OpenapiValidator(openapiRouter, options.OwnBodyValidation...)
	} else {
		validator = OpenapiValidator(nil)
	}

	router.
		Use(StartRequest).
		Use(CorrelationId).
		Use(RegisterLogger(log)).
		Use(TraceLog).
		Use(PanicRecovery).
		Use(validator)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"status": "UP",
		})
	})

	router.GET("/status", func(c *gin.Context) {
		response := struct {
			Uptime float64 `json:"uptime"`
		}{
			Uptime: time.Since(startTime).Seconds(),
		}

		c.JSON(http.StatusOK, response)
	})

	router.GET("/openapi.json", func(c *gin.Context) {
		if len(options.OpenapiContent) == 0 {
			HandleError(c, http.StatusNotFound, "OpenAPI document not available", nil)
			return
		}

		c.Data(http.StatusOK, "application/json", options.OpenapiContent)
	})

	pprof.Register(router)

	for _, register := range registrars {
		register(router)
	}

	if options.StaticDir != "" {
		if _, err := os.Stat(options.StaticDir); err == nil {
			files := http.FileServer(http.Dir(options.StaticDir))
			router.NoRoute(func(c *gin.Context) {
				if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
					HandleError(c, http.StatusNotFound, "Not found", nil)
					return
				}
				files.ServeHTTP(c.Writer, c.Request)
			})
		} else {
			log.Warn().Err(err).Str("dir", options.StaticDir).Msg("Static directory not served")
		}
	}

	return router
}
