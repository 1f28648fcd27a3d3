package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// HunkRecord is one contiguous line range in one file attributed to one author.
// Author is the raw alias recorded by version control, not a resolved identity.
type HunkRecord struct {
	Author    string `json:"author"`
	Timestamp string `json:"timestamp,omitempty"` // Kept exactly as the producer sent it.
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
	Filepath  string `json:"filepath"`
}

// Validate checks the shape of a hunk. It does not check the hunk against any diff.
func (h HunkRecord) Validate() error {
	if h.Filepath == "" {
		return errors.New("empty filepath")
	}
	if h.LineStart < 0 || h.LineEnd < 0 {
		return fmt.Errorf("negative line range %d-%d in %s", h.LineStart, h.LineEnd, h.Filepath)
	}
	if h.LineStart > h.LineEnd {
		return fmt.Errorf("line_start %d after line_end %d in %s", h.LineStart, h.LineEnd, h.Filepath)
	}
	return nil
}

// BlameDocument is the persisted shape of a review's hunk vector:
// {"blamevec": [...]}.
type BlameDocument struct {
	Blamevec []HunkRecord `json:"blamevec"`
}

// MarshalBlame renders hunks as a BlameDocument. A nil vector is written as
// an empty array so readers never see null.
func MarshalBlame(hunks []HunkRecord) ([]byte, error) {
	if hunks == nil {
		hunks = []HunkRecord{}
	}
	return json.Marshal(BlameDocument{Blamevec: hunks})
}

// UnmarshalBlame parses a BlameDocument and returns its hunks, never nil.
func UnmarshalBlame(data []byte) ([]HunkRecord, error) {
	var doc BlameDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Blamevec == nil {
		doc.Blamevec = []HunkRecord{}
	}
	return doc.Blamevec, nil
}
