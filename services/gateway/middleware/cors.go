// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORSConfig controls cross-origin behavior.
type CORSConfig struct {
	// AllowedOrigins is the origin allow-list. Empty means no
	// cross-origin access is granted.
	AllowedOrigins []string
	// Strict rejects disallowed cross-origin requests with 403 instead
	// of just omitting the CORS headers and letting the browser block
	// the response.
	Strict bool
}

// CORSMiddleware handles the CORS handshake for browser clients.
//
// # Description
//
// Allowed origins get the standard CORS response headers and OPTIONS
// preflights answered with 204. Disallowed origins get no CORS headers
// (the browser enforces the block); in strict mode the gateway rejects
// them outright with 403 so the request never reaches a handler.
// Same-origin and non-browser requests carry no Origin header and pass
// through untouched.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if !allowed[origin] {
			if cfg.Strict {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "origin not allowed",
				})
				return
			}
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
