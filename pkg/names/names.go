// Package names classifies name-part tokens into semantic roles using
// dataset-local type codes.
package names

// PartType is the semantic role of a name token.
type PartType string

const (
	PartTypeFirst PartType = "first"
	PartTypeLast  PartType = "last"
	PartTypeOrg   PartType = "org"
	PartTypeOther PartType = "other"
)

// TypeConfig holds the configured local type codes per role. Immutable once
// built; pass it into every classifier construction rather than reading
// ambient state.
type TypeConfig struct {
	LastNameTypes  []string
	FirstNameTypes []string
	OrgNameTypes   []string
}

// Classifier maps raw name parts to roles. Pure function of configuration
// and input.
type Classifier struct {
	lastTypes  map[string]struct{}
	firstTypes map[string]struct{}
	orgTypes   map[string]struct{}
}

// NewClassifier builds a classifier from the configured type-code lists.
func NewClassifier(cfg TypeConfig) *Classifier {
	return &Classifier{
		lastTypes:  toSet(cfg.LastNameTypes),
		firstTypes: toSet(cfg.FirstNameTypes),
		orgTypes:   toSet(cfg.OrgNameTypes),
	}
}

func toSet(types []string) map[string]struct{} {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// IsLastName reports whether the part's local type is a configured last-name code.
func (c *Classifier) IsLastName(localType string) bool {
	_, ok := c.lastTypes[localType]
	return ok
}

// IsFirstName reports whether the part's local type is a configured first-name code.
func (c *Classifier) IsFirstName(localType string) bool {
	_, ok := c.firstTypes[localType]
	return ok
}

// IsOrgName reports whether the part's local type is a configured org-name code.
func (c *Classifier) IsOrgName(localType string) bool {
	_, ok := c.orgTypes[localType]
	return ok
}

// Classify returns the role of a name part. When a local type appears in
// more than one configured list the first-name list wins; well-formed
// configuration keeps the lists disjoint but the classifier does not
// enforce that.
func (c *Classifier) Classify(localType string) PartType {
	switch {
	case c.IsFirstName(localType):
		return PartTypeFirst
	case c.IsLastName(localType):
		return PartTypeLast
	case c.IsOrgName(localType):
		return PartTypeOrg
	default:
		return PartTypeOther
	}
}

// IsSameType reports whether both parts classify into the same one of
// {first, last, org}. Two OTHER parts never match.
func (c *Classifier) IsSameType(localTypeA, localTypeB string) bool {
	if c.IsLastName(localTypeA) && c.IsLastName(localTypeB) {
		return true
	}
	if c.IsFirstName(localTypeA) && c.IsFirstName(localTypeB) {
		return true
	}
	if c.IsOrgName(localTypeA) && c.IsOrgName(localTypeB) {
		return true
	}
	return false
}
