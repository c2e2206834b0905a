package symbolic

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ============================================================
// JSON expression trees
// ============================================================

// Node is the wire form of one expression node:
//
//	{"type":"num","value":"3/2"}
//	{"type":"sym","name":"x"}
//	{"type":"add","terms":[...]}     {"type":"mul","factors":[...]}
//	{"type":"pow","base":{...},"exp":{...}}
//	{"type":"func","name":"sin","arg":{...}}
type Node struct {
	Type    string  `json:"type"`
	Value   string  `json:"value,omitempty"`
	Name    string  `json:"name,omitempty"`
	Terms   []*Node `json:"terms,omitempty"`
	Factors []*Node `json:"factors,omitempty"`
	Base    *Node   `json:"base,omitempty"`
	Exp     *Node   `json:"exp,omitempty"`
	Arg     *Node   `json:"arg,omitempty"`
}

// TreeOf returns the Node tree of e.
func TreeOf(e Expr) *Node { return e.node() }

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.node())
	return string(b), err
}

// UnmarshalExpr decodes a tree produced by ToJSON or written by hand.
func UnmarshalExpr(data []byte) (Expr, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTree, err)
	}
	return n.Expr()
}

// Expr builds the expression the tree describes. Errors carry the path of
// the offending node, such as "add.terms[1].pow.exp".
func (n *Node) Expr() (Expr, error) { return n.build("") }

func (n *Node) build(path string) (Expr, error) {
	if n == nil {
		return nil, treeErr(path, "missing node")
	}
	at := n.Type
	if path != "" {
		at = path + "." + n.Type
	}

	switch n.Type {
	case "num":
		r, ok := new(big.Rat).SetString(n.Value)
		if !ok {
			return nil, treeErr(at, "invalid number %q", n.Value)
		}
		return NRat(r), nil

	case "sym":
		if n.Name == "" {
			return nil, treeErr(at, "symbol needs a name")
		}
		return S(n.Name), nil

	case "add", "mul":
		children := n.Terms
		field := "terms"
		if n.Type == "mul" {
			children, field = n.Factors, "factors"
		}
		if len(children) == 0 {
			return nil, treeErr(at, "%s must not be empty", field)
		}
		args := make([]Expr, len(children))
		for i, c := range children {
			e, err := c.build(fmt.Sprintf("%s.%s[%d]", at, field, i))
			if err != nil {
				return nil, err
			}
			args[i] = e
		}
		if n.Type == "add" {
			return AddOf(args...), nil
		}
		return MulOf(args...), nil

	case "pow":
		base, err := n.Base.build(at + ".base")
		if err != nil {
			return nil, err
		}
		exp, err := n.Exp.build(at + ".exp")
		if err != nil {
			return nil, err
		}
		if b, ok := base.(*Num); ok && b.IsZero() {
			if e, ok := exp.(*Num); ok && e.Sign() < 0 {
				return nil, treeErr(at, "zero to a negative power")
			}
		}
		return PowOf(base, exp), nil

	case "func":
		if _, known := unaryFuncs[n.Name]; !known {
			return nil, treeErr(at, "unknown function %q", n.Name)
		}
		arg, err := n.Arg.build(at + ".arg")
		if err != nil {
			return nil, err
		}
		return Apply(n.Name, arg), nil
	}
	return nil, treeErr(path, "unknown node type %q", n.Type)
}

func treeErr(path, format string, args ...interface{}) error {
	if path == "" {
		path = "root"
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidTree, path, fmt.Sprintf(format, args...))
}
