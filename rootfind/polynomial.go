package rootfind

import "fmt"

// Polynomial is a dense polynomial, lowest degree first: Polynomial{-2, 0, 1}
// is x^2 - 2. It satisfies Expandable without any symbolic machinery.
type Polynomial []float64

// Eval uses Horner's rule.
func (p Polynomial) Eval(x float64) float64 {
	var acc float64
	for i := len(p) - 1; i >= 0; i-- {
		acc = acc*x + p[i]
	}
	return acc
}

func (p Polynomial) Derivative() (Function, error) {
	return p.derivative(), nil
}

func (p Polynomial) derivative() Polynomial {
	if len(p) < 2 {
		return Polynomial{}
	}
	d := make(Polynomial, len(p)-1)
	for i := 1; i < len(p); i++ {
		d[i-1] = float64(i) * p[i]
	}
	return d
}

// Degree is the index of the highest non-zero coefficient, -1 for zero.
func (p Polynomial) Degree() (int, error) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i, nil
		}
	}
	return -1, nil
}

// Taylor re-expands p around center and drops every power of (x-center)
// above degree. The result is returned in powers of x again.
func (p Polynomial) Taylor(center float64, degree int) (Expandable, error) {
	if degree < 0 {
		return nil, fmt.Errorf("%w: negative taylor degree %d", ErrInvalidInput, degree)
	}
	shifted := shift(p, center)
	if len(shifted) > degree+1 {
		shifted = shifted[:degree+1]
	}
	return shift(shifted, -center), nil
}

// shift returns the coefficients of p(t + c) in powers of t, by repeated
// synthetic division.
func shift(p Polynomial, c float64) Polynomial {
	q := append(Polynomial(nil), p...)
	n := len(q)
	for i := 0; i < n-1; i++ {
		for j := n - 2; j >= i; j-- {
			q[j] += c * q[j+1]
		}
	}
	return q
}

// SolveExact returns the root of a linear polynomial. Constants, including
// zero, yield no roots.
func (p Polynomial) SolveExact() ([]float64, error) {
	d, _ := p.Degree()
	switch {
	case d < 1:
		return nil, nil
	case d == 1:
		return []float64{-p[0] / p[1]}, nil
	}
	return nil, fmt.Errorf("%w: no exact solver for degree %d", ErrIllFormed, d)
}
