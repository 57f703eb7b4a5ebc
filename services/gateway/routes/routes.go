// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dizid/shipkit/pkg/identity"
	"github.com/dizid/shipkit/services/gateway/handlers"
	"github.com/dizid/shipkit/services/gateway/middleware"
)

// Options carries everything route registration needs.
type Options struct {
	Generate  handlers.GenerateDeps
	Auth      identity.AuthProvider
	CORS      middleware.CORSConfig
	RateLimit middleware.RateLimitConfig
}

func SetupRoutes(router *gin.Engine, opts Options) {
	router.Use(middleware.CORSMiddleware(opts.CORS))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(opts.Auth))
	if opts.RateLimit.RequestsPerSecond > 0 {
		v1.Use(middleware.RateLimitMiddleware(opts.RateLimit))
	}
	{
		v1.POST("/generate", handlers.HandleGenerate(opts.Generate))
		v1.GET("/usage", handlers.HandleUsage(opts.Generate.Quota))
	}
}
