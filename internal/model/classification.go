package model

import (
	"encoding/json"
)

// Candidate is one guess produced by the hash identifier for a hash.
// The identifier emits hashcat modes as numbers, strings or null; Hashcat
// holds the text form and is empty when the guess has no mode.
type Candidate struct {
	Name        string `json:"name"`
	Hashcat     string `json:"hashcat"`
	John        string `json:"john"`
	Extended    bool   `json:"extended"`
	Description string `json:"description"`
}

// UnmarshalJSON accepts any JSON scalar for the text fields.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	var aux struct {
		Name        json.RawMessage `json:"name"`
		Hashcat     json.RawMessage `json:"hashcat"`
		John        json.RawMessage `json:"john"`
		Extended    json.RawMessage `json:"extended"`
		Description json.RawMessage `json:"description"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Name = textValue(aux.Name)
	c.Hashcat = textValue(aux.Hashcat)
	c.John = textValue(aux.John)
	c.Extended = textValue(aux.Extended) == "true"
	c.Description = textValue(aux.Description)
	return nil
}

// Mode returns the hashcat mode of the candidate, or "" if it has none.
func (c Candidate) Mode() string {
	return c.Hashcat
}

// Classification maps each hash to its ordered candidate guesses.
// Hashes keeps the order in which the identifier reported them.
type Classification struct {
	Hashes     []string
	Candidates map[string][]Candidate

	// Malformed lists, in report order, the hashes whose value was not an
	// array of candidate objects. They have no candidates.
	Malformed []string
}

// ParseClassification decodes identifier output: a JSON object whose keys
// are hashes and whose values are arrays of candidate objects.
//
// Only output that is not a single JSON object is an error. A hash whose
// value cannot be decoded is kept with no candidates and listed in
// Malformed, so one odd entry does not lose the rest of the map.
func ParseClassification(data []byte) (*Classification, error) {
	keys, values, err := decodeOrderedObject(data)
	if err != nil {
		return nil, err
	}

	c := &Classification{
		Hashes:     keys,
		Candidates: make(map[string][]Candidate, len(keys)),
	}
	for _, hash := range keys {
		var cands []Candidate
		if err := json.Unmarshal(values[hash], &cands); err != nil {
			c.Malformed = append(c.Malformed, hash)
			cands = nil
		}
		c.Candidates[hash] = cands
	}
	return c, nil
}

// Len returns the number of classified hashes.
func (c *Classification) Len() int {
	return len(c.Hashes)
}
