package server

import (
	"encoding/json"

	"github.com/njchilds90/gorootfind/rootfind"
	"github.com/njchilds90/gorootfind/sweep"
)

// RunRequest is the body of POST /v1/run. Exactly one of Expression and
// ExpressionTree must be set.
type RunRequest struct {
	Expression string `json:"expression"`
	// ExpressionTree is a symbolic.Node tree, as produced by symbolic.ToJSON.
	ExpressionTree json.RawMessage `json:"expression_tree"`
	Variable   string          `json:"variable"`
	Method     rootfind.Method `json:"method" binding:"required"`
	Start      []float64       `json:"start" binding:"required,min=1,max=2"`
	Epsilon    float64         `json:"epsilon" binding:"required,gt=0"`
	// MaxIterations is clamped to the server limit; zero means the limit.
	MaxIterations int `json:"max_iterations" binding:"gte=0"`
	// Estimate also fits the History when set.
	Estimate bool          `json:"estimate"`
	Mode     rootfind.Mode `json:"mode"`
}

// SweepRequest is the body of POST /v1/sweep: a sweep spec whose expression
// may be given as a tree instead of text.
type SweepRequest struct {
	sweep.Spec
	ExpressionTree json.RawMessage `json:"expression_tree"`
}

type RunResponse struct {
	ID            string             `json:"id"`
	Expression    string             `json:"expression"`
	Result        rootfind.Result    `json:"result"`
	Estimate      *rootfind.Estimate `json:"estimate,omitempty"`
	EstimateError string             `json:"estimate_error,omitempty"`
}

// EstimateRequest is the body of POST /v1/estimate.
type EstimateRequest struct {
	History rootfind.History `json:"history" binding:"required"`
	Mode    rootfind.Mode    `json:"mode"`
}

type EstimateResponse struct {
	ID       string            `json:"id"`
	Estimate rootfind.Estimate `json:"estimate"`
}

type MethodInfo struct {
	Name        string `json:"name"`
	StartPoints int    `json:"start_points"`
	Derivatives int    `json:"derivatives"`
}

type ErrorResponse struct {
	Error  string          `json:"error"`
	Code   string          `json:"code"`
	Status rootfind.Status `json:"status,omitempty"`
}
