package names

import (
	"strings"

	"github.com/Ramsey-B/laurel/pkg/models"
)

// PartTokens partitions an entry's name parts into whitespace tokens per
// role. A nil or empty entry yields empty token lists.
func (c *Classifier) PartTokens(entry *models.NameEntry) map[PartType][]string {
	tokens := map[PartType][]string{
		PartTypeFirst: {},
		PartTypeLast:  {},
		PartTypeOrg:   {},
		PartTypeOther: {},
	}
	if entry == nil {
		return tokens
	}
	for _, part := range entry.Parts {
		role := c.Classify(part.LocalType)
		tokens[role] = append(tokens[role], strings.Fields(part.Value)...)
	}
	return tokens
}

// DisplayName renders a human-readable name for an entry: org names joined
// by commas when present, otherwise first names followed by last names.
func (c *Classifier) DisplayName(entry *models.NameEntry) string {
	tokens := c.PartTokens(entry)
	if len(tokens[PartTypeOrg]) > 0 {
		return strings.Join(tokens[PartTypeOrg], ", ")
	}
	parts := append([]string{}, tokens[PartTypeFirst]...)
	parts = append(parts, tokens[PartTypeLast]...)
	return strings.Join(parts, " ")
}

// PrimaryName returns the org name when present, otherwise the last names.
func (c *Classifier) PrimaryName(entry *models.NameEntry) string {
	tokens := c.PartTokens(entry)
	if len(tokens[PartTypeOrg]) > 0 {
		return strings.Join(tokens[PartTypeOrg], ", ")
	}
	return strings.Join(tokens[PartTypeLast], " ")
}

// SecondaryName returns the first names of an entry.
func (c *Classifier) SecondaryName(entry *models.NameEntry) string {
	return strings.Join(c.PartTokens(entry)[PartTypeFirst], " ")
}
