package adapters

import (
	"github.com/ZanzyTHEbar/errbuilder-go"

	"keywordscan/internal/types"
)

// depNodeYAML is one dependency expression node as written in YAML.
// Exactly one of the kind fields may be set; a top-level node list is an
// implicit all-of group. The textual dependency grammar is out of scope,
// so index files carry the expression tree directly.
type depNodeYAML struct {
	Atom *atomYAML     `yaml:"atom"`
	All  []depNodeYAML `yaml:"all"`
	Any  []depNodeYAML `yaml:"any"`
	Cond *condYAML     `yaml:"cond"`
}

type atomYAML struct {
	Category string       `yaml:"category"`
	Package  string       `yaml:"package"`
	Op       string       `yaml:"op"`
	Version  string       `yaml:"version"`
	Slot     string       `yaml:"slot"`
	SlotOp   string       `yaml:"slot_op"`
	Blocks   bool         `yaml:"blocks"`
	Use      []useDepYAML `yaml:"use"`
}

type useDepYAML struct {
	Flag        string `yaml:"flag"`
	Negate      bool   `yaml:"negate"`
	Conditional bool   `yaml:"conditional"`
	Default     string `yaml:"default"`
}

type condYAML struct {
	Flag   string        `yaml:"flag"`
	Negate bool          `yaml:"negate"`
	Of     []depNodeYAML `yaml:"of"`
}

func depNodesToTree(nodes []depNodeYAML) (*types.DepNode, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	root := types.NewAllOf()
	for _, node := range nodes {
		converted, err := node.toDepNode()
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, converted)
	}
	return root, nil
}

func (n depNodeYAML) toDepNode() (*types.DepNode, error) {
	kinds := 0
	if n.Atom != nil {
		kinds++
	}
	if len(n.All) > 0 {
		kinds++
	}
	if len(n.Any) > 0 {
		kinds++
	}
	if n.Cond != nil {
		kinds++
	}
	if kinds != 1 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency node must set exactly one of atom, all, any, cond")
	}
	switch {
	case n.Atom != nil:
		atom, err := n.Atom.toAtom()
		if err != nil {
			return nil, err
		}
		return types.NewAtomNode(atom), nil
	case len(n.All) > 0:
		group := types.NewAllOf()
		for _, child := range n.All {
			converted, err := child.toDepNode()
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, converted)
		}
		return group, nil
	case len(n.Any) > 0:
		group := types.NewAnyOf()
		for _, child := range n.Any {
			converted, err := child.toDepNode()
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, converted)
		}
		return group, nil
	default:
		if n.Cond.Flag == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("conditional dependency node requires a flag")
		}
		group := types.NewConditional(n.Cond.Flag, n.Cond.Negate)
		for _, child := range n.Cond.Of {
			converted, err := child.toDepNode()
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, converted)
		}
		return group, nil
	}
}

var versionOps = map[string]types.VersionOp{
	"":   types.VersionOpNone,
	"=":  types.VersionOpEq,
	"=*": types.VersionOpEqStar,
	">=": types.VersionOpGte,
	"<=": types.VersionOpLte,
	">":  types.VersionOpGt,
	"<":  types.VersionOpLt,
	"~":  types.VersionOpRev,
}

func (a atomYAML) toAtom() (types.Atom, error) {
	if a.Category == "" || a.Package == "" {
		return types.Atom{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("atom requires category and package")
	}
	op, ok := versionOps[a.Op]
	if !ok {
		return types.Atom{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown atom version operator: " + a.Op)
	}
	if op != types.VersionOpNone && a.Version == "" {
		return types.Atom{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("atom version operator requires a version")
	}
	atom := types.Atom{
		Category: a.Category,
		Package:  a.Package,
		Op:       op,
		Version:  a.Version,
		Slot:     a.Slot,
		SlotOp:   a.SlotOp,
		Blocks:   a.Blocks,
	}
	for _, u := range a.Use {
		atom.Use = append(atom.Use, types.UseDep{
			Flag:        u.Flag,
			Negate:      u.Negate,
			Conditional: u.Conditional,
			Default:     u.Default,
		})
	}
	return atom, nil
}
