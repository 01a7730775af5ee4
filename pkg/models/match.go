package models

import "time"

// MatchScore carries the sub-scores for one scored record pair. Each
// sub-score is in [-1, 1]; -1 means the score was not computable from the
// available data, which is distinct from 0 (computed, no match).
type MatchScore struct {
	NameScore    float64 `json:"name_score"`
	DateScore    float64 `json:"date_score"`
	BioScore     float64 `json:"bio_score"`
	OverallScore float64 `json:"overall_score"`
}

// Match is one scored pairing of (base record, base name entry) against
// (compare record, compare name entry). Created once, immutable thereafter.
type Match struct {
	ID               string    `json:"id" db:"id"`
	JobID            string    `json:"job_id" db:"job_id"`
	Initiator        string    `json:"initiator" db:"initiator"`
	BaseDatasetID    string    `json:"base_dataset_id" db:"base_dataset_id"`
	BaseRecordID     string    `json:"base_record_id" db:"base_record_id"`
	BaseNameEntry    int       `json:"base_name_entry" db:"base_name_entry"`
	CompareDatasetID string    `json:"compare_dataset_id" db:"compare_dataset_id"`
	CompareRecordID  string    `json:"compare_record_id" db:"compare_record_id"`
	CompareNameEntry int       `json:"compare_name_entry" db:"compare_name_entry"`
	LuceneScore      float64   `json:"lucene_score" db:"lucene_score"`
	NameScore        float64   `json:"name_score" db:"name_score"`
	DateScore        float64   `json:"date_score" db:"date_score"`
	BioScore         float64   `json:"bio_score" db:"bio_score"`
	OverallScore     float64   `json:"overall_score" db:"overall_score"`
	MatchedAt        time.Time `json:"matched_at" db:"matched_at"`
}

// MasterMatch tracks, per (job, base record), the best match seen so far.
// Score only ever moves upward; ties keep the first-seen master.
type MasterMatch struct {
	JobID         string    `json:"job_id" db:"job_id"`
	BaseRecordID  string    `json:"base_record_id" db:"base_record_id"`
	MasterMatchID string    `json:"master_match_id" db:"master_match_id"`
	Score         float64   `json:"score" db:"score"`
	PrimaryName   string    `json:"primary_name" db:"primary_name"`
	SecondaryName string    `json:"secondary_name" db:"secondary_name"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// MatchJobMessage is the trigger that starts a matching job.
type MatchJobMessage struct {
	BaseDatasetID  string `json:"base_dataset_id" validate:"required"`
	MatchDatasetID string `json:"match_dataset_id" validate:"required"`
	JobID          string `json:"job_id" validate:"required"`
	Initiator      string `json:"initiator"`
}
