package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ericfisherdev/reviewblame/internal/domain/model"
	"github.com/ericfisherdev/reviewblame/internal/domain/port/driven"
)

// blamePayload is the ingestion producer's wire shape. Reviews are kept raw so
// one malformed review cannot spoil the decoding of its siblings.
type blamePayload struct {
	RepoProvider string            `json:"repo_provider"`
	RepoOwner    string            `json:"repo_owner"`
	RepoName     string            `json:"repo_name"`
	Reviews      []json.RawMessage `json:"prhunkvec"`
}

type reviewPayload struct {
	PRNumber reviewNumber       `json:"pr_number"`
	Author   string             `json:"author"`
	Blamevec []model.HunkRecord `json:"blamevec"`
}

// reviewNumber accepts pr_number either as a JSON string or a JSON number.
type reviewNumber string

func (n *reviewNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = reviewNumber(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("pr_number must be a string or number: %w", err)
	}
	id, err := integralNumber(num)
	if err != nil {
		return err
	}
	*n = reviewNumber(strconv.FormatInt(id, 10))
	return nil
}

// integralNumber reads a JSON number as an integer, so 42, 42.0 and 4.2e1 all
// name the same review. Fractions are rejected.
func integralNumber(num json.Number) (int64, error) {
	if id, err := strconv.ParseInt(num.String(), 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(num.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("pr_number %s is not a number: %w", num, err)
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("pr_number %s is not an integer", num)
	}
	return int64(f), nil
}

// decodeBlamePayload parses the batch envelope. It fails with
// ErrMalformedPayload when the input is not JSON or lacks the repository triple.
func decodeBlamePayload(data []byte) (model.RepoKey, []json.RawMessage, error) {
	var p blamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return model.RepoKey{}, nil, fmt.Errorf("decode blame payload: %w: %w", driven.ErrMalformedPayload, err)
	}

	repo := model.RepoKey{Provider: p.RepoProvider, Owner: p.RepoOwner, Name: p.RepoName}
	if err := repo.Validate(); err != nil {
		return model.RepoKey{}, nil, fmt.Errorf("decode blame payload: %w: %w", driven.ErrMalformedPayload, err)
	}

	return repo, p.Reviews, nil
}

// decodeReview parses one element of prhunkvec into a ReviewBlame for repo.
func decodeReview(repo model.RepoKey, raw json.RawMessage) (model.ReviewBlame, error) {
	var r reviewPayload
	if err := json.Unmarshal(raw, &r); err != nil {
		return model.ReviewBlame{}, err
	}
	return model.ReviewBlame{
		Key:    model.ReviewKey{Repo: repo, ReviewID: string(r.PRNumber)},
		Author: r.Author,
		Hunks:  r.Blamevec,
	}, nil
}
