package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/njchilds90/gorootfind/rootfind"
	"github.com/njchilds90/gorootfind/sweep"
	"github.com/njchilds90/gorootfind/symbolic"
)

// HandleHealth handles GET /v1/health.
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleMethods handles GET /v1/methods.
func (s *Server) HandleMethods(c *gin.Context) {
	derivatives := map[rootfind.Method]int{
		rootfind.MethodNewton: 1,
		rootfind.MethodHalley: 2,
	}
	out := make([]MethodInfo, 0, len(rootfind.Methods()))
	for _, m := range rootfind.Methods() {
		out = append(out, MethodInfo{Name: m.String(), StartPoints: m.StartPoints(), Derivatives: derivatives[m]})
	}
	c.JSON(http.StatusOK, out)
}

// HandleRun handles POST /v1/run.
//
// Response:
//
//	200 OK: RunResponse, including breakdowns
//	400 Bad Request: malformed body, expression or arguments
//	422 Unprocessable Entity: non-finite evaluation or iteration budget spent
//	504 Gateway Timeout: request timeout reached
func (s *Server) HandleRun(c *gin.Context) {
	id := uuid.NewString()
	logger := s.logger.With("request_id", id, "handler", "HandleRun")

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	if req.Variable == "" {
		req.Variable = "x"
	}
	expr, err := parseExpression(req.Expression, req.ExpressionTree)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_EXPRESSION"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()
	res, err := rootfind.RunExpr(ctx, req.Method, expr, req.Variable, req.Start, req.Epsilon,
		rootfind.WithMaxIterations(s.iterationLimit(req.MaxIterations)),
		rootfind.WithLogger(logger))
	if res.Status != "" {
		s.metrics.ObserveRun(req.Method.String(), string(res.Status), res.Iterations)
	}
	if err != nil {
		status, code := classify(err)
		logger.Info("run failed", "method", req.Method, "error", err, "status", res.Status)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code, Status: res.Status})
		return
	}

	resp := RunResponse{ID: id, Expression: expr.String(), Result: res}
	if req.Estimate {
		if est, err := rootfind.EstimateConvergence(res.History, req.Mode); err != nil {
			resp.EstimateError = err.Error()
		} else {
			resp.Estimate = &est
		}
	}
	logger.Debug("run finished", "method", req.Method, "status", res.Status, "iterations", res.Iterations)
	c.JSON(http.StatusOK, resp)
}

// HandleEstimate handles POST /v1/estimate.
func (s *Server) HandleEstimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	est, err := rootfind.EstimateConvergence(req.History, req.Mode)
	if err != nil {
		status, code := classify(err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}
	c.JSON(http.StatusOK, EstimateResponse{ID: uuid.NewString(), Estimate: est})
}

// HandleSweep handles POST /v1/sweep. The body is a sweep spec; its
// iteration cap is clamped to the server limit. A tree expression is
// printed back to text, which is the form sweep specs carry.
func (s *Server) HandleSweep(c *gin.Context) {
	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_REQUEST"})
		return
	}
	spec := req.Spec
	if hasTree(req.ExpressionTree) {
		expr, err := parseExpression(spec.Expression, req.ExpressionTree)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "INVALID_EXPRESSION"})
			return
		}
		spec.Expression = expr.String()
	}
	spec.MaxIterations = s.iterationLimit(spec.MaxIterations)

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()
	report, err := s.runner.Run(ctx, spec)
	if err != nil {
		status, code := classify(err)
		s.logger.Info("sweep failed", "sweep", spec.Name, "error", err)
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
		return
	}
	c.JSON(http.StatusOK, report)
}

// parseExpression reads exactly one of a text expression and a JSON tree.
func parseExpression(text string, tree json.RawMessage) (symbolic.Expr, error) {
	switch {
	case hasTree(tree) && text != "":
		return nil, errors.New("set either expression or expression_tree, not both")
	case hasTree(tree):
		return symbolic.UnmarshalExpr(tree)
	case text == "":
		return nil, errors.New("expression or expression_tree is required")
	}
	return symbolic.Parse(text)
}

func hasTree(tree json.RawMessage) bool {
	return len(tree) > 0 && string(tree) != "null"
}

func (s *Server) iterationLimit(requested int) int {
	if requested <= 0 || requested > s.cfg.MaxIterations {
		return s.cfg.MaxIterations
	}
	return requested
}

// classify maps an error to an HTTP status and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	case errors.Is(err, rootfind.ErrCanceled):
		return http.StatusServiceUnavailable, "CANCELED"
	case errors.Is(err, symbolic.ErrSyntax), errors.Is(err, symbolic.ErrInvalidTree):
		return http.StatusBadRequest, "INVALID_EXPRESSION"
	case errors.Is(err, sweep.ErrInvalidSpec):
		return http.StatusBadRequest, "INVALID_SPEC"
	case errors.Is(err, rootfind.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, rootfind.ErrIllFormed):
		return http.StatusBadRequest, "ILL_FORMED"
	case errors.Is(err, rootfind.ErrNonFinite):
		return http.StatusUnprocessableEntity, "NON_FINITE"
	case errors.Is(err, rootfind.ErrIterationBudget):
		return http.StatusUnprocessableEntity, "ITERATION_BUDGET"
	case errors.Is(err, rootfind.ErrShortHistory):
		return http.StatusUnprocessableEntity, "SHORT_HISTORY"
	case errors.Is(err, rootfind.ErrDegenerateFit):
		return http.StatusUnprocessableEntity, "DEGENERATE_FIT"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// requestLogger logs each request through slog.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds())
	}
}

// bodyLimit caps request bodies at n bytes.
func bodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
