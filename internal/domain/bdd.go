// Package domain contains the core business entities and value objects.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BDDScenario is a behavior-driven scenario with Given/When/Then steps.
// A scenario with a non-empty Examples list renders as a Scenario Outline.
type BDDScenario struct {
	// Name is the scenario title.
	Name string `json:"name"`

	// Given are the precondition steps.
	Given []string `json:"given"`

	// When are the action steps.
	When []string `json:"when"`

	// Then are the expected outcome steps.
	Then []string `json:"then"`

	// Examples holds the data rows for a Scenario Outline, nil otherwise.
	Examples []ExampleRow `json:"examples"`

	// Tags are optional Gherkin tags such as @smoke or @regression.
	Tags []string `json:"tags,omitempty"`
}

// HasExamples reports whether the scenario should render as an outline.
func (s *BDDScenario) HasExamples() bool {
	return len(s.Examples) > 0
}

// ExampleRow is one row of a Scenario Outline examples table.
// JSON object key order is preserved so the rendered table keeps the
// column order the source produced.
type ExampleRow struct {
	keys   []string
	values map[string]any
}

// Set adds or replaces a column value, recording first-seen key order.
func (r *ExampleRow) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, seen := r.values[key]; !seen {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Keys returns the column names in their original order.
func (r *ExampleRow) Keys() []string {
	return r.keys
}

// Get returns the value for a column name.
func (r *ExampleRow) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len returns the number of columns in the row.
func (r *ExampleRow) Len() int {
	return len(r.keys)
}

// UnmarshalJSON decodes a JSON object while recording key order.
// Numbers are kept as json.Number so table cells render their source literal.
func (r *ExampleRow) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("example row must be a JSON object")
	}

	r.keys = nil
	r.values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("example row key must be a string")
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.Set(key, value)
	}

	// Consume the closing brace.
	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the row as a JSON object in recorded key order.
func (r ExampleRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valueJSON, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
