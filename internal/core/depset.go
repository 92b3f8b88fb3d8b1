package core

import (
	"errors"

	"keywordscan/internal/shared"
	"keywordscan/internal/types"
)

// maxTransitiveUseDeps bounds how many conditional USE deps a single
// atom may carry before its expansion is abandoned.
const maxTransitiveUseDeps = 16

// maxSolutions bounds the disjunctive-normal-form expansion of one
// dependency expression.
const maxSolutions = 4096

// errTooComplex signals that an expression exceeded an expansion limit.
// Callers recover by reporting the attribute as uncheckable.
var errTooComplex = errors.New("dependency expression too large to enumerate")

// EvaluateDepSet eliminates conditional branches from a raw dependency
// expression. Flags in state.Immutable are pinned: the branch is taken
// exactly when the flag's forced value satisfies the condition. Flags
// outside state.Immutable stay toggleable by the package, so both the
// positive and negative branch remain reachable and their payloads are
// retained. The result contains only atom and all-of/any-of nodes, in
// declaration order.
func EvaluateDepSet(node *types.DepNode, state types.FlagState) *types.DepNode {
	out := types.NewAllOf()
	if node == nil {
		return out
	}
	out.Children = evaluateChildren(node, state)
	return out
}

func evaluateChildren(node *types.DepNode, state types.FlagState) []*types.DepNode {
	switch node.Kind {
	case types.DepKindAtom:
		return []*types.DepNode{types.NewAtomNode(node.Atom)}
	case types.DepKindAllOf:
		var out []*types.DepNode
		for _, child := range node.Children {
			out = append(out, evaluateChildren(child, state)...)
		}
		return out
	case types.DepKindAnyOf:
		group := types.NewAnyOf()
		for _, child := range node.Children {
			evaluated := evaluateChildren(child, state)
			switch len(evaluated) {
			case 0:
			case 1:
				group.Children = append(group.Children, evaluated[0])
			default:
				group.Children = append(group.Children, types.NewAllOf(evaluated...))
			}
		}
		if len(group.Children) == 0 {
			return nil
		}
		return []*types.DepNode{group}
	case types.DepKindConditional:
		flag := shared.StripUseDefault(node.Flag)
		if state.Immutable.Has(flag) {
			if state.Enabled.Has(flag) == node.Negate {
				return nil
			}
		}
		var out []*types.DepNode
		for _, child := range node.Children {
			out = append(out, evaluateChildren(child, state)...)
		}
		return out
	}
	return nil
}

// FlattenAtoms yields every atom in the raw expression, conditional
// branches included, in declaration order. It fails with errTooComplex
// when an atom's transitive USE deps exceed the expansion limit.
func FlattenAtoms(node *types.DepNode) ([]types.Atom, error) {
	if node == nil {
		return nil, nil
	}
	var out []types.Atom
	var walk func(n *types.DepNode) error
	walk = func(n *types.DepNode) error {
		if n.Kind == types.DepKindAtom {
			if n.Atom.TransitiveUseCount() > maxTransitiveUseDeps {
				return errTooComplex
			}
			out = append(out, n.Atom)
			return nil
		}
		for _, child := range n.Children {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(node); err != nil {
		return nil, err
	}
	return out, nil
}

// KnownConditionals collects the conditional flags an expression
// declares, with use-dep default suffixes stripped.
func KnownConditionals(node *types.DepNode) types.FlagSet {
	flags := types.FlagSet{}
	var walk func(n *types.DepNode)
	walk = func(n *types.DepNode) {
		if n == nil {
			return
		}
		if n.Kind == types.DepKindConditional {
			flags.Add(shared.StripUseDefault(n.Flag))
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(node)
	return flags
}

// Solutions expands an evaluated expression into its disjunctive-normal
// form: each solution is one all-of list of atoms that satisfies the
// whole expression. Solution order and atom order inside each solution
// follow declaration order, which downstream reporting depends on.
func Solutions(node *types.DepNode) ([][]types.Atom, error) {
	if node == nil {
		return [][]types.Atom{{}}, nil
	}
	switch node.Kind {
	case types.DepKindAtom:
		return [][]types.Atom{{node.Atom}}, nil
	case types.DepKindAnyOf:
		var out [][]types.Atom
		for _, child := range node.Children {
			expanded, err := Solutions(child)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
			if len(out) > maxSolutions {
				return nil, errTooComplex
			}
		}
		return out, nil
	default:
		out := [][]types.Atom{{}}
		for _, child := range node.Children {
			expanded, err := Solutions(child)
			if err != nil {
				return nil, err
			}
			crossed := make([][]types.Atom, 0, len(out)*len(expanded))
			for _, base := range out {
				for _, extra := range expanded {
					merged := make([]types.Atom, 0, len(base)+len(extra))
					merged = append(merged, base...)
					merged = append(merged, extra...)
					crossed = append(crossed, merged)
				}
			}
			if len(crossed) > maxSolutions {
				return nil, errTooComplex
			}
			out = crossed
		}
		return out, nil
	}
}
