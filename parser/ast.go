package parser

// Node is a parsed dice expression. The set of implementations is closed:
// *IntegerLiteral, *DiceTerm, *Negated and *BinaryOp. Grouping parentheses
// have no node of their own.
type Node interface {
	// Pos returns the byte offset of the first token of the node.
	Pos() int
	// String renders the node as an s-expression, e.g. "(neg (+ 2 3))".
	String() string

	node()
}

// Operator is one of the four binary arithmetic operators.
type Operator byte

const (
	Add Operator = '+'
	Sub Operator = '-'
	Mul Operator = '*'
	Div Operator = '/'
)

func (o Operator) String() string { return string(rune(o)) }

// IntegerLiteral is a non-negative integer of one or more decimal digits.
type IntegerLiteral struct {
	Digits string
	Offset int
}

// DiceTerm is "<count>d<sides>". Both digit groups are kept verbatim and
// may be arbitrarily long.
type DiceTerm struct {
	Count  string
	Sides  string
	Offset int
}

// Negated is a unary minus applied to a whole sub-expression.
type Negated struct {
	Inner  Node
	Offset int
}

// BinaryOp is Left Op Right.
type BinaryOp struct {
	Op     Operator
	Left   Node
	Right  Node
	Offset int
}

func (n *IntegerLiteral) Pos() int { return n.Offset }
func (n *DiceTerm) Pos() int       { return n.Offset }
func (n *Negated) Pos() int        { return n.Offset }
func (n *BinaryOp) Pos() int       { return n.Offset }

func (n *IntegerLiteral) String() string { return n.Digits }
func (n *DiceTerm) String() string       { return n.Count + "d" + n.Sides }
func (n *Negated) String() string        { return "(neg " + n.Inner.String() + ")" }
func (n *BinaryOp) String() string {
	return "(" + n.Op.String() + " " + n.Left.String() + " " + n.Right.String() + ")"
}

func (*IntegerLiteral) node() {}
func (*DiceTerm) node()       {}
func (*Negated) node()        {}
func (*BinaryOp) node()       {}
