package symbolic

import "errors"

var (
	// ErrSyntax is returned by Parse for malformed input.
	ErrSyntax = errors.New("symbolic: syntax error")

	// ErrInvalidTree is returned when decoding a malformed JSON expression
	// tree.
	ErrInvalidTree = errors.New("symbolic: invalid expression tree")

	// ErrUnboundSymbol means an expression references a symbol other than
	// the variable it is being evaluated in.
	ErrUnboundSymbol = errors.New("symbolic: unbound symbol")

	// ErrUnknownFunction means a Func node names a function with no numeric
	// implementation.
	ErrUnknownFunction = errors.New("symbolic: unknown function")

	// ErrNotPolynomial means the expression is not a polynomial in the
	// requested variable.
	ErrNotPolynomial = errors.New("symbolic: not a polynomial")

	// ErrNotNumeric means a value that had to reduce to a number did not.
	ErrNotNumeric = errors.New("symbolic: expression is not numeric")

	// ErrDegreeTooHigh is returned by SolveExact above degree one.
	ErrDegreeTooHigh = errors.New("symbolic: no exact solver for this degree")
)
