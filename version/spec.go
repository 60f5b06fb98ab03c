package version

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies which grammar a Spec was parsed with.
type Kind int

const (
	// KindExact is a plain version compared by string equality first.
	KindExact Kind = iota
	// KindComparison is an operator (>=, <=, >, <, =) followed by a version.
	KindComparison
	// KindCaret is a compatible range (^1.2.3).
	KindCaret
	// KindTilde is a patch range (~1.2.3).
	KindTilde
	// KindAlias is a symbolic name such as lts or latest.
	KindAlias
	// KindPartial is a version with fewer than three components (18, 18.2, 18.x).
	KindPartial
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindComparison:
		return "comparison"
	case KindCaret:
		return "caret"
	case KindTilde:
		return "tilde"
	case KindAlias:
		return "alias"
	case KindPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Operator is a comparison operator.
type Operator string

// Supported comparison operators. Longer operators are listed first so that
// prefix matching picks ">=" over ">".
const (
	OpGTE Operator = ">="
	OpLTE Operator = "<="
	OpGT  Operator = ">"
	OpLT  Operator = "<"
	OpEQ  Operator = "="
)

var operators = []Operator{OpGTE, OpLTE, OpGT, OpLT, OpEQ}

// Apply reports whether cmp (the result of Compare(current, spec)) satisfies
// the operator.
func (o Operator) Apply(cmp int) bool {
	switch o {
	case OpGTE:
		return cmp >= 0
	case OpLTE:
		return cmp <= 0
	case OpGT:
		return cmp > 0
	case OpLT:
		return cmp < 0
	case OpEQ:
		return cmp == 0
	default:
		return false
	}
}

// Spec is a parsed required-version string.
type Spec struct {
	Kind Kind
	// Raw is the normalized input.
	Raw string
	// Operator is set for KindComparison.
	Operator Operator
	// Version is the operand with any operator stripped.
	Version string
	// Parts holds the given components of a KindPartial spec.
	Parts []string
}

// Normalize trims whitespace and strips a leading "v".
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		return v[1:]
	}
	return v
}

var aliases = map[string]bool{
	"lts":    true,
	"stable": true,
	"latest": true,
	"node":   true,
	"lts/*":  true,
}

// IsAlias reports whether s is a symbolic alias (lts, stable, latest, node,
// lts/*, lts/<codename>).
func IsAlias(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if aliases[s] {
		return true
	}
	return strings.HasPrefix(s, "lts/") && len(s) > len("lts/")
}

type rule struct {
	kind  Kind
	match func(s string) bool
	parse func(s string) Spec
}

// rules is evaluated in order; the first match wins. Exact equality against
// the current version is checked by the matcher before any rule applies.
var rules = []rule{
	{
		kind: KindComparison,
		match: func(s string) bool {
			_, ok := leadingOperator(s)
			return ok
		},
		parse: func(s string) Spec {
			op, _ := leadingOperator(s)
			operand := Normalize(strings.TrimPrefix(s, string(op)))
			return Spec{Kind: KindComparison, Raw: s, Operator: op, Version: operand}
		},
	},
	{
		kind:  KindCaret,
		match: func(s string) bool { return strings.HasPrefix(s, "^") },
		parse: func(s string) Spec {
			return Spec{Kind: KindCaret, Raw: s, Version: Normalize(s[1:])}
		},
	},
	{
		kind:  KindTilde,
		match: func(s string) bool { return strings.HasPrefix(s, "~") },
		parse: func(s string) Spec {
			return Spec{Kind: KindTilde, Raw: s, Version: Normalize(s[1:])}
		},
	},
	{
		kind:  KindAlias,
		match: IsAlias,
		parse: func(s string) Spec {
			return Spec{Kind: KindAlias, Raw: s, Version: s}
		},
	},
	{
		kind:  KindPartial,
		match: func(s string) bool { return s != "" && len(strings.Split(s, ".")) < 3 },
		parse: func(s string) Spec {
			return Spec{Kind: KindPartial, Raw: s, Version: s, Parts: strings.Split(s, ".")}
		},
	},
}

func leadingOperator(s string) (Operator, bool) {
	for _, op := range operators {
		if strings.HasPrefix(s, string(op)) {
			return op, true
		}
	}
	return "", false
}

// ParseSpec classifies a required-version string. Anything no rule claims is
// KindExact.
func ParseSpec(s string) Spec {
	s = Normalize(s)
	for _, r := range rules {
		if r.match(s) {
			return r.parse(s)
		}
	}
	return Spec{Kind: KindExact, Raw: s, Version: s}
}

// Parsed is a numeric (major, minor, patch) triple.
type Parsed struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`
}

var leadingDigits = regexp.MustCompile(`^\d+`)

// Parse splits v on "." into at most three components. Missing components
// are 0 and a component without leading digits parses as 0, so Parse never
// fails.
func Parse(v string) Parsed {
	parts := strings.SplitN(Normalize(v), ".", 3)
	nums := [3]int{}
	for i := 0; i < len(parts) && i < 3; i++ {
		nums[i] = parseComponent(parts[i])
	}
	return Parsed{Major: nums[0], Minor: nums[1], Patch: nums[2]}
}

func parseComponent(s string) int {
	digits := leadingDigits.FindString(strings.TrimSpace(s))
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// String formats the triple as major.minor.patch.
func (p Parsed) String() string {
	return strconv.Itoa(p.Major) + "." + strconv.Itoa(p.Minor) + "." + strconv.Itoa(p.Patch)
}

// Compare returns -1, 0 or 1 comparing a and b lexicographically.
func Compare(a, b Parsed) int {
	switch {
	case a.Major != b.Major:
		return sign(a.Major - b.Major)
	case a.Minor != b.Minor:
		return sign(a.Minor - b.Minor)
	default:
		return sign(a.Patch - b.Patch)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

var tripleRe = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ExtractTriple returns the first major.minor.patch substring of s.
func ExtractTriple(s string) (string, bool) {
	m := tripleRe.FindString(s)
	return m, m != ""
}

// HasRangeMarker reports whether s contains a comparison or range marker.
func HasRangeMarker(s string) bool {
	return strings.ContainsAny(s, "<>=^~")
}
