package types

type DepAttr string

const (
	DepAttrDepend  DepAttr = "depend"
	DepAttrRDepend DepAttr = "rdepend"
	DepAttrPDepend DepAttr = "pdepend"
)

// DepAttrs is the fixed check order for dependency attributes.
var DepAttrs = []DepAttr{DepAttrDepend, DepAttrRDepend, DepAttrPDepend}

type VersionOp string

const (
	VersionOpNone   VersionOp = ""
	VersionOpEq     VersionOp = "="
	VersionOpEqStar VersionOp = "=*"
	VersionOpGte    VersionOp = ">="
	VersionOpLte    VersionOp = "<="
	VersionOpGt     VersionOp = ">"
	VersionOpLt     VersionOp = "<"
	VersionOpRev    VersionOp = "~"
)

// Cadence controls how often the query and depset caches are cleared
// during a scan. It trades memory for repeated repository lookups and
// never affects which findings are produced.
type Cadence string

const (
	CadenceVersion  Cadence = "version"
	CadencePackage  Cadence = "package"
	CadenceCategory Cadence = "category"
)

func ParseCadence(value string) (Cadence, bool) {
	switch Cadence(value) {
	case CadenceVersion, CadencePackage, CadenceCategory:
		return Cadence(value), true
	}
	return "", false
}

type DepKind string

const (
	DepKindAtom        DepKind = "atom"
	DepKindAllOf       DepKind = "all-of"
	DepKindAnyOf       DepKind = "any-of"
	DepKindConditional DepKind = "conditional"
)
