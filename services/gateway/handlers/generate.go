// Copyright (C) 2026 LaunchPilot (support@launchpilot.marketing)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the gateway's HTTP handlers.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dizid/shipkit/pkg/logging"
	"github.com/dizid/shipkit/services/gateway/datatypes"
	"github.com/dizid/shipkit/services/gateway/middleware"
	"github.com/dizid/shipkit/services/gateway/observability"
	"github.com/dizid/shipkit/services/gateway/quota"
	"github.com/dizid/shipkit/services/gateway/upstream"
	"github.com/dizid/shipkit/services/gateway/usage"
)

// Recorder is the handler's view of the usage ledger.
type Recorder interface {
	Record(ctx context.Context, entry usage.Entry) error
}

// GenerateDeps wires the generation pipeline into the handler.
type GenerateDeps struct {
	Upstream *upstream.Client
	Quota    *quota.Checker
	Ledger   Recorder
	Metrics  *observability.GatewayMetrics
	Logger   *logging.Logger
}

// HandleGenerate runs one AI generation for the authenticated user.
//
// # Description
//
// The pipeline, in order: verified identity from the auth middleware,
// request validation, parameter clamping, quota check, upstream call,
// fire-and-forget accounting, passthrough of the upstream body. The
// accounting write happens after the response is already decided; its
// failure is logged and counted but never surfaces to the caller.
//
// Accounting is keyed by the verified user only. A userId in the
// request body is ignored by construction (it is not even a field of
// GenerateRequest).
func HandleGenerate(deps GenerateDeps) gin.HandlerFunc {
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	return func(c *gin.Context) {
		info := middleware.GetAuthInfo(c)
		if info == nil {
			respond(c, deps.Metrics, http.StatusUnauthorized, datatypes.ErrorResponse{Error: "Unauthorized"})
			return
		}

		var req datatypes.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, deps.Metrics, http.StatusBadRequest, datatypes.ErrorResponse{
				Error: "Invalid request: messages array with role and content is required",
			})
			return
		}

		status, err := deps.Quota.Check(c.Request.Context(), info.UserID)
		var exceeded *quota.ExceededError
		if errors.As(err, &exceeded) {
			deps.Metrics.RecordQuotaRejection(string(status.Tier))
			respond(c, deps.Metrics, http.StatusTooManyRequests, datatypes.QuotaExceededResponse{
				Error: "Monthly limit reached",
				Quota: datatypes.QuotaState{
					Used:      status.Used,
					Limit:     status.Limit,
					Tier:      string(status.Tier),
					ResetDate: status.ResetDate,
				},
			})
			return
		}

		upstreamReq := upstream.Request{
			Messages:    req.Messages,
			Temperature: req.ClampedTemperature(),
			MaxTokens:   req.ClampedMaxTokens(),
		}

		start := time.Now()
		resp, err := deps.Upstream.Send(c.Request.Context(), upstreamReq)
		elapsed := time.Since(start).Seconds()
		if err != nil {
			deps.Metrics.RecordUpstreamLatency(upstreamOutcome(err), elapsed)
			code, msg := upstreamErrorResponse(err)
			deps.Logger.Error("upstream generation failed",
				"user_id", info.UserID, "task_id", req.TaskID, "error", err)
			respond(c, deps.Metrics, code, datatypes.ErrorResponse{Error: msg})
			return
		}
		deps.Metrics.RecordUpstreamLatency("success", elapsed)

		// Accounting must not delay or fail the response. Recorded only
		// when the request named a task; ad-hoc calls without a taskId
		// do not count against the quota.
		if req.TaskID != "" {
			go recordUsage(deps, info.UserID, req, resp)
		}

		deps.Metrics.RecordRequest("generate", strconv.Itoa(http.StatusOK))
		c.Data(http.StatusOK, "application/json", resp.Raw)
	}
}

// recordUsage writes the accounting entry, estimating token counts
// when the upstream response carried none.
func recordUsage(deps GenerateDeps, userID string, req datatypes.GenerateRequest, resp *upstream.Response) {
	entry := usage.Entry{
		UserID:       userID,
		TaskID:       req.TaskID,
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		At:           time.Now().UTC(),
	}
	if !resp.HasUsage {
		promptLen := 0
		for _, m := range req.Messages {
			promptLen += len(m.Content)
		}
		entry.InputTokens = usage.EstimateTokensN(promptLen)
		entry.OutputTokens = usage.EstimateTokens(resp.Text)
		entry.Estimated = true
	}
	deps.Metrics.RecordTokens(entry.InputTokens, entry.OutputTokens, entry.Estimated)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := deps.Ledger.Record(ctx, entry); err != nil {
		deps.Metrics.RecordUsageWriteFailure()
		deps.Logger.Error("usage write failed, entry dropped",
			"user_id", userID, "task_id", entry.TaskID, "error", err)
	}
}

func upstreamOutcome(err error) string {
	var (
		timeoutErr *upstream.TimeoutError
		connErr    *upstream.ConnectionError
		statusErr  *upstream.StatusError
		shapeErr   *upstream.ShapeError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &connErr):
		return "connection"
	case errors.As(err, &statusErr):
		return "status"
	case errors.As(err, &shapeErr):
		return "shape"
	default:
		return "unknown"
	}
}

func upstreamErrorResponse(err error) (int, string) {
	var timeoutErr *upstream.TimeoutError
	if errors.As(err, &timeoutErr) {
		return http.StatusGatewayTimeout, "AI generation timed out. Please try again."
	}
	return http.StatusBadGateway, "AI service error. Please try again."
}

func respond(c *gin.Context, metrics *observability.GatewayMetrics, code int, body any) {
	metrics.RecordRequest("generate", strconv.Itoa(code))
	c.JSON(code, body)
}
