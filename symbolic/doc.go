// Package symbolic is the small exact-arithmetic expression kernel behind
// the root finders.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat) for coefficients and Taylor terms
//   - Deterministic simplification and stable string output
//   - Symbolic differentiation, expansion and truncated Taylor polynomials
//   - Exact solving for polynomials of degree at most one
//   - Compilation of any expression into a float64 closure
//   - Text and JSON tree front ends (Parse, UnmarshalExpr) for CLI and HTTP callers
package symbolic
