package symbolic

import "fmt"

// ============================================================
// Polynomial inspection
// ============================================================

// Coefficients returns the coefficients of expr as a polynomial in varName,
// lowest degree first, with trailing zeros removed. The zero polynomial
// yields an empty slice.
func Coefficients(expr Expr, varName string) ([]*Num, error) {
	var coeffs []*Num
	for _, term := range addends(Expand(expr)) {
		c, k, err := monomial(term, varName)
		if err != nil {
			return nil, err
		}
		for len(coeffs) <= k {
			coeffs = append(coeffs, N(0))
		}
		coeffs[k] = numAdd(coeffs[k], c)
	}
	for len(coeffs) > 0 && coeffs[len(coeffs)-1].IsZero() {
		coeffs = coeffs[:len(coeffs)-1]
	}
	return coeffs, nil
}

// monomial splits an expanded term into c*varName^k.
func monomial(term Expr, varName string) (*Num, int, error) {
	switch v := term.(type) {
	case *Num:
		return v, 0, nil
	case *Sym:
		if v.name == varName {
			return N(1), 1, nil
		}
	case *Pow:
		if s, ok := v.base.(*Sym); ok && s.name == varName {
			if n, ok := v.exp.(*Num); ok {
				if k, ok := n.smallInt(); ok && k >= 0 {
					return N(1), int(k), nil
				}
			}
			return nil, 0, fmt.Errorf("%w: %s in %s", ErrNotPolynomial, term, varName)
		}
	case *Mul:
		coeff, degree := N(1), 0
		for _, f := range v.factors {
			c, k, err := monomial(f, varName)
			if err != nil {
				return nil, 0, err
			}
			coeff = numMul(coeff, c)
			degree += k
		}
		return coeff, degree, nil
	}
	if dependsOn(term, varName) {
		return nil, 0, fmt.Errorf("%w: %s in %s", ErrNotPolynomial, term, varName)
	}
	n, ok := term.Eval()
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotNumeric, term)
	}
	return n, 0, nil
}

// Degree returns the polynomial degree of expr in varName. The zero
// polynomial has degree -1.
func Degree(expr Expr, varName string) (int, error) {
	coeffs, err := Coefficients(expr, varName)
	if err != nil {
		return 0, err
	}
	return len(coeffs) - 1, nil
}

// SolveExact returns the roots of a polynomial of degree at most one.
// Constants have no roots; the zero polynomial is reported the same way.
func SolveExact(expr Expr, varName string) ([]*Num, error) {
	coeffs, err := Coefficients(expr, varName)
	if err != nil {
		return nil, err
	}
	switch len(coeffs) {
	case 0, 1:
		return nil, nil
	case 2:
		return []*Num{numNeg(numDiv(coeffs[0], coeffs[1]))}, nil
	}
	return nil, fmt.Errorf("%w: degree %d", ErrDegreeTooHigh, len(coeffs)-1)
}

// FromCoefficients builds c0 + c1*x + ... + cn*x^n.
func FromCoefficients(coeffs []*Num, varName string) Expr {
	terms := make([]Expr, 0, len(coeffs))
	for k, c := range coeffs {
		if c.IsZero() {
			continue
		}
		terms = append(terms, MulOf(c, PowOf(S(varName), N(int64(k)))))
	}
	return AddOf(terms...)
}
