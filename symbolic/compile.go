package symbolic

import (
	"fmt"
	"math"
)

// NumericFunc is a compiled single-variable expression.
type NumericFunc func(x float64) float64

// Lambdify compiles expr into a float64 closure over varName. Every other
// symbol is an error, as is any function without a numeric implementation.
// The closure follows IEEE semantics: it returns NaN or Inf where the
// expression is undefined instead of failing.
func Lambdify(expr Expr, varName string) (NumericFunc, error) {
	return compile(expr, varName)
}

func compile(e Expr, varName string) (NumericFunc, error) {
	switch v := e.(type) {
	case *Num:
		c := v.Float64()
		return func(float64) float64 { return c }, nil
	case *Sym:
		if v.name != varName {
			return nil, fmt.Errorf("%w: %s", ErrUnboundSymbol, v.name)
		}
		return func(x float64) float64 { return x }, nil
	case *Add:
		parts, err := compileAll(v.terms, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			sum := 0.0
			for _, p := range parts {
				sum += p(x)
			}
			return sum
		}, nil
	case *Mul:
		parts, err := compileAll(v.factors, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			prod := 1.0
			for _, p := range parts {
				prod *= p(x)
			}
			return prod
		}, nil
	case *Pow:
		base, err := compile(v.base, varName)
		if err != nil {
			return nil, err
		}
		if n, ok := v.exp.(*Num); ok {
			if k, ok := n.smallInt(); ok && k >= -maxExactPower && k <= maxExactPower {
				return func(x float64) float64 { return intPow(base(x), k) }, nil
			}
		}
		exp, err := compile(v.exp, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return math.Pow(base(x), exp(x)) }, nil
	case *Func:
		fn, known := unaryFuncs[v.name]
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, v.name)
		}
		arg, err := compile(v.arg, varName)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return fn(arg(x)) }, nil
	}
	return nil, fmt.Errorf("symbolic: cannot compile %T", e)
}

func compileAll(es []Expr, varName string) ([]NumericFunc, error) {
	out := make([]NumericFunc, len(es))
	for i, e := range es {
		f, err := compile(e, varName)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// intPow is repeated squaring; 0^-k gives +Inf like math.Pow.
func intPow(b float64, k int64) float64 {
	neg := k < 0
	if neg {
		k = -k
	}
	result := 1.0
	for k > 0 {
		if k&1 == 1 {
			result *= b
		}
		b *= b
		k >>= 1
	}
	if neg {
		return 1 / result
	}
	return result
}
