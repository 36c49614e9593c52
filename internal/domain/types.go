// Package domain defines the core persistence models for the application.
// This file provides the JSON-in-TEXT column types shared by the models:
// the option list of a question and the per-day distribution blob of a
// daily summary.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is an ordered sequence of strings stored as a JSON array in a
// TEXT column. It backs Question.Options.
type StringList []string

// Value implements driver.Valuer by serializing the list to JSON.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner by deserializing a JSON array from TEXT/BLOB.
func (l *StringList) Scan(src any) error {
	return scanJSON(src, l, "StringList")
}

// SummaryData is the opaque structured blob persisted per (survey, question,
// day): a mapping from answer value to occurrence count, the total number of
// counted answers, and a derived mean that is present only for yes/no
// distributions (key set exactly {"Yes","No"}), computed as counts["Yes"]/total.
type SummaryData struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
	Mean   *float64       `json:"mean,omitempty"`
}

// Value implements driver.Valuer by serializing the blob to JSON.
func (d SummaryData) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner by deserializing the blob from TEXT/BLOB.
func (d *SummaryData) Scan(src any) error {
	return scanJSON(src, d, "SummaryData")
}

// scanJSON decodes a TEXT or BLOB column into dst. NULL leaves dst untouched.
func scanJSON(src, dst any, what string) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into %s", src, what)
	}
}
