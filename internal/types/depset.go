package types

// DepNode is one node of a dependency expression tree. The conditional
// kind only exists between loading and depset evaluation; evaluated
// trees handed to the solvability engine contain atoms and all-of/any-of
// groups exclusively. Child order is declaration order and is preserved
// by every transformation.
type DepNode struct {
	Kind     DepKind
	Atom     Atom
	Flag     string
	Negate   bool
	Children []*DepNode
}

func NewAtomNode(atom Atom) *DepNode {
	return &DepNode{Kind: DepKindAtom, Atom: atom}
}

func NewAllOf(children ...*DepNode) *DepNode {
	return &DepNode{Kind: DepKindAllOf, Children: children}
}

func NewAnyOf(children ...*DepNode) *DepNode {
	return &DepNode{Kind: DepKindAnyOf, Children: children}
}

func NewConditional(flag string, negate bool, children ...*DepNode) *DepNode {
	return &DepNode{Kind: DepKindConditional, Flag: flag, Negate: negate, Children: children}
}

// IsEmpty reports whether the node holds no requirement at all.
func (n *DepNode) IsEmpty() bool {
	if n == nil {
		return true
	}
	return n.Kind != DepKindAtom && len(n.Children) == 0
}
