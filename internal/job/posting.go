// Package job defines the posting records flowing through the pipeline.
//
// Postings arrive from an external acquisition collaborator as
// self-describing records. Fields this module does not know about are kept
// in the Rest map and written back unchanged, never rejected.
package job

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Posting is one raw job advertisement. Identity is the acquisition layer's
// responsibility and is not re-validated here.
type Posting struct {
	ID          string `mapstructure:"id"`
	Title       string `mapstructure:"title"`
	Company     string `mapstructure:"company"`
	Location    string `mapstructure:"location"`
	JobURL      string `mapstructure:"job_url"`
	Description string `mapstructure:"description"`
	DatePosted  string `mapstructure:"date_posted"`
	Site        string `mapstructure:"site"`
	Salary      string `mapstructure:"salary"`

	// Rest holds unknown fields from the source record. They pass through
	// every stage untouched.
	Rest map[string]any `mapstructure:",remain"`
}

// Postings is an ordered collection of raw postings.
type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// FromRecord decodes a self-describing record into a Posting, keeping
// unknown fields in Rest. Scalar fields are decoded weakly so numeric ids or
// salaries coming from loosely typed sources do not fail the batch.
func FromRecord(record map[string]any) (*Posting, error) {
	var posting Posting

	cfg := &mapstructure.DecoderConfig{
		Result:           &posting,
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("decode posting record: %w", err)
	}

	return &posting, nil
}

// FromRecords decodes a slice of records, preserving order.
func FromRecords(records []map[string]any) (*Postings, error) {
	postings := &Postings{Items: make([]*Posting, 0, len(records))}
	for i, record := range records {
		posting, err := FromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		postings.Items = append(postings.Items, posting)
	}
	return postings, nil
}

// Record returns the posting as a flat record: every known field plus the
// unknown remainder.
func (p *Posting) Record() map[string]any {
	record := make(map[string]any, len(p.Rest)+9)
	for key, value := range p.Rest {
		record[key] = value
	}

	record["id"] = p.ID
	record["title"] = p.Title
	record["company"] = p.Company
	record["location"] = p.Location
	record["job_url"] = p.JobURL
	record["description"] = p.Description
	record["date_posted"] = p.DatePosted
	record["site"] = p.Site
	record["salary"] = p.Salary

	return record
}

func (p *Posting) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Record())
}

func (p *Posting) UnmarshalJSON(data []byte) error {
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}

	decoded, err := FromRecord(record)
	if err != nil {
		return err
	}

	*p = *decoded
	return nil
}
