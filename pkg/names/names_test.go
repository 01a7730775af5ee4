package names

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/laurel/pkg/models"
)

func testClassifier() *Classifier {
	return NewClassifier(TypeConfig{
		LastNameTypes:  []string{"surname", "100"},
		FirstNameTypes: []string{"forename", "200"},
		OrgNameTypes:   []string{"corporatebody", "500"},
	})
}

func TestClassifier_Classify(t *testing.T) {
	c := testClassifier()

	t.Run("ConfiguredTypes", func(t *testing.T) {
		assert.Equal(t, PartTypeLast, c.Classify("surname"))
		assert.Equal(t, PartTypeLast, c.Classify("100"))
		assert.Equal(t, PartTypeFirst, c.Classify("forename"))
		assert.Equal(t, PartTypeFirst, c.Classify("200"))
		assert.Equal(t, PartTypeOrg, c.Classify("corporatebody"))
		assert.Equal(t, PartTypeOrg, c.Classify("500"))
	})

	t.Run("UnknownTypeIsOther", func(t *testing.T) {
		assert.Equal(t, PartTypeOther, c.Classify("epithet"))
		assert.Equal(t, PartTypeOther, c.Classify(""))
	})

	t.Run("OverlappingConfigPrefersFirstName", func(t *testing.T) {
		overlap := NewClassifier(TypeConfig{
			LastNameTypes:  []string{"name"},
			FirstNameTypes: []string{"name"},
		})
		assert.Equal(t, PartTypeFirst, overlap.Classify("name"))
		assert.True(t, overlap.IsLastName("name"))
		assert.True(t, overlap.IsFirstName("name"))
	})
}

func TestClassifier_IsSameType(t *testing.T) {
	c := testClassifier()

	t.Run("SameRoleDifferentCodes", func(t *testing.T) {
		assert.True(t, c.IsSameType("surname", "100"))
		assert.True(t, c.IsSameType("forename", "200"))
		assert.True(t, c.IsSameType("corporatebody", "500"))
	})

	t.Run("DifferentRoles", func(t *testing.T) {
		assert.False(t, c.IsSameType("surname", "forename"))
		assert.False(t, c.IsSameType("corporatebody", "surname"))
	})

	t.Run("OtherNeverMatchesOther", func(t *testing.T) {
		assert.False(t, c.IsSameType("epithet", "epithet"))
		assert.False(t, c.IsSameType("", ""))
	})
}

func TestClassifier_PartTokens(t *testing.T) {
	c := testClassifier()

	t.Run("SplitsOnWhitespace", func(t *testing.T) {
		entry := &models.NameEntry{
			Parts: []models.NamePart{
				{LocalType: "surname", Value: "van der Berg"},
				{LocalType: "forename", Value: "Anna"},
				{LocalType: "epithet", Value: "the Elder"},
			},
		}

		tokens := c.PartTokens(entry)
		assert.Equal(t, []string{"van", "der", "Berg"}, tokens[PartTypeLast])
		assert.Equal(t, []string{"Anna"}, tokens[PartTypeFirst])
		assert.Equal(t, []string{"the", "Elder"}, tokens[PartTypeOther])
		assert.Empty(t, tokens[PartTypeOrg])
	})

	t.Run("NilEntry", func(t *testing.T) {
		tokens := c.PartTokens(nil)
		assert.Empty(t, tokens[PartTypeLast])
		assert.Empty(t, tokens[PartTypeFirst])
	})
}

func TestClassifier_DisplayNames(t *testing.T) {
	c := testClassifier()

	t.Run("PersonName", func(t *testing.T) {
		entry := &models.NameEntry{
			Parts: []models.NamePart{
				{LocalType: "surname", Value: "Smith"},
				{LocalType: "forename", Value: "John"},
			},
		}
		assert.Equal(t, "John Smith", c.DisplayName(entry))
		assert.Equal(t, "Smith", c.PrimaryName(entry))
		assert.Equal(t, "John", c.SecondaryName(entry))
	})

	t.Run("OrgNameWinsOverPersonParts", func(t *testing.T) {
		entry := &models.NameEntry{
			Parts: []models.NamePart{
				{LocalType: "corporatebody", Value: "Acme Corp"},
				{LocalType: "surname", Value: "Smith"},
			},
		}
		assert.Equal(t, "Acme, Corp", c.DisplayName(entry))
		assert.Equal(t, "Acme, Corp", c.PrimaryName(entry))
	})
}
