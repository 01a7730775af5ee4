package models

import (
	"encoding/json"
	"time"
)

// Dataset is one ingested authority dataset.
type Dataset struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Record is a single authority record belonging to exactly one dataset.
// Identity and Description are stored as JSONB documents and decoded on read.
type Record struct {
	ID            string          `json:"id" db:"id"`
	DatasetID     string          `json:"dataset_id" db:"dataset_id"`
	IdentityRaw   json.RawMessage `json:"-" db:"identity"`
	DescriptionRaw json.RawMessage `json:"-" db:"description"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`

	Identity    *Identity    `json:"identity,omitempty" db:"-"`
	Description *Description `json:"description,omitempty" db:"-"`
}

// Decode parses the raw identity and description documents. Empty documents
// decode to nil, which scoring treats as "no contribution".
func (r *Record) Decode() error {
	if len(r.IdentityRaw) > 0 {
		var identity Identity
		if err := json.Unmarshal(r.IdentityRaw, &identity); err != nil {
			return err
		}
		r.Identity = &identity
	}
	if len(r.DescriptionRaw) > 0 {
		var description Description
		if err := json.Unmarshal(r.DescriptionRaw, &description); err != nil {
			return err
		}
		r.Description = &description
	}
	return nil
}

// Identity holds the naming variants of a record.
type Identity struct {
	NameEntries []NameEntry `json:"name_entries"`
}

// NameEntry is one naming variant (e.g. one language form) of a record.
type NameEntry struct {
	ScriptCode string     `json:"script_code,omitempty"`
	Parts      []NamePart `json:"parts"`
}

// NamePart is a single name token with its dataset-local type code.
type NamePart struct {
	LocalType string `json:"local_type"`
	Value     string `json:"value"`
}

// Description holds the biographical description of a record.
type Description struct {
	ExistDates *ExistDates `json:"exist_dates,omitempty"`
	BiogHists  []BiogHist  `json:"biog_hists,omitempty"`
}

// ExistDates holds the existence dates of a record, as explicit ranges
// and/or single dates with free-text bounds.
type ExistDates struct {
	DateRanges []DateRange `json:"date_ranges,omitempty"`
	Dates      []DateValue `json:"dates,omitempty"`
}

// DateRange is an explicit from/to existence range.
type DateRange struct {
	FromDate *DateValue `json:"from_date,omitempty"`
	ToDate   *DateValue `json:"to_date,omitempty"`
}

// DateValue carries a free-text date plus optional not-before/not-after bounds.
type DateValue struct {
	Date      string `json:"date,omitempty"`
	NotBefore string `json:"not_before,omitempty"`
	NotAfter  string `json:"not_after,omitempty"`
}

// BiogHist is one biography section of a record description.
type BiogHist struct {
	Abstract   string   `json:"abstract,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty"`
}
