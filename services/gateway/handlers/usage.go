// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dizid/shipkit/services/gateway/datatypes"
	"github.com/dizid/shipkit/services/gateway/middleware"
	"github.com/dizid/shipkit/services/gateway/quota"
)

// HandleUsage reports the authenticated user's quota position for the
// current calendar month.
func HandleUsage(checker *quota.Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			c.JSON(http.StatusUnauthorized, datatypes.ErrorResponse{Error: "Unauthorized"})
			return
		}

		// An over-limit user still gets their numbers; only generate
		// rejects on ExceededError.
		status, err := checker.Check(c.Request.Context(), info.UserID)
		if err != nil {
			var exceeded *quota.ExceededError
			if !errors.As(err, &exceeded) {
				c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Error: "Failed to load usage"})
				return
			}
		}

		c.JSON(http.StatusOK, datatypes.UsageResponse{
			Used:      status.Used,
			Limit:     status.Limit,
			Remaining: status.Remaining(),
			Tier:      string(status.Tier),
			ResetDate: status.ResetDate,
		})
	}
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
}
