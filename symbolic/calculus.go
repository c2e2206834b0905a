package symbolic

import "fmt"

// maxExpandPower bounds the integer powers of sums that Expand multiplies out.
const maxExpandPower = 32

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

// Diff returns d(expr)/d(varName).
func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

// DiffN returns the n-th derivative.
func DiffN(expr Expr, varName string, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, varName)
	}
	return result
}

// Expand multiplies out products and non-negative integer powers of sums.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = expandExpr(t)
		}
		return AddOf(terms...)
	case *Mul:
		var acc Expr = N(1)
		for _, f := range v.factors {
			acc = distribute(acc, expandExpr(f))
		}
		return acc
	case *Pow:
		base := expandExpr(v.base)
		n, ok := v.exp.(*Num)
		if !ok {
			return PowOf(base, v.exp)
		}
		k, ok := n.smallInt()
		if !ok || k < 0 || k > maxExpandPower {
			return PowOf(base, v.exp)
		}
		switch b := base.(type) {
		case *Add:
			var acc Expr = N(1)
			for i := int64(0); i < k; i++ {
				acc = distribute(acc, b)
			}
			return acc
		case *Mul:
			factors := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				factors[i] = PowOf(f, n)
			}
			return MulOf(factors...)
		}
		return PowOf(base, v.exp)
	case *Func:
		return funcOf(v.name, expandExpr(v.arg)).Simplify()
	}
	return e
}

// distribute multiplies two expanded expressions term by term.
func distribute(a, b Expr) Expr {
	left, right := addends(a), addends(b)
	terms := make([]Expr, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			terms = append(terms, MulOf(l, r))
		}
	}
	return AddOf(terms...)
}

func addends(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Taylor polynomials
// ============================================================

// TaylorPolynomial returns the Taylor expansion of expr around center,
// truncated after the (x-center)^degree term and expanded into powers of
// varName. The remainder is dropped. Every derivative must reduce to a
// number at center.
func TaylorPolynomial(expr Expr, varName string, center Expr, degree int) (Expr, error) {
	if degree < 0 {
		return nil, fmt.Errorf("symbolic: negative taylor degree %d", degree)
	}
	shift := AddOf(S(varName), MulOf(N(-1), center))
	current := expr.Simplify()
	factorial := N(1)
	terms := make([]Expr, 0, degree+1)
	for k := 0; k <= degree; k++ {
		if k > 0 {
			factorial = numMul(factorial, N(int64(k)))
			current = Diff(current, varName)
		}
		value, ok := Sub(current, varName, center).Eval()
		if !ok {
			return nil, fmt.Errorf("%w: derivative %d of %s at %s", ErrNotNumeric, k, expr, center)
		}
		if value.IsZero() {
			continue
		}
		terms = append(terms, MulOf(numDiv(value, factorial), PowOf(shift, N(int64(k)))))
	}
	return Expand(AddOf(terms...)), nil
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

func dependsOn(e Expr, varName string) bool {
	_, ok := FreeSymbols(e)[varName]
	return ok
}
