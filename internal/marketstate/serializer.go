package marketstate

import (
	"encoding/json"
	"fmt"
	"io"
)

// Serializer converts snapshots to and from their persisted form. The
// persistence controller treats it as a pluggable collaborator.
type Serializer interface {
	Serialize(snapshot Snapshot, w io.Writer) error
	Deserialize(r io.Reader) (Snapshot, error)
}

// JSONSerializer persists snapshots as UTF-8 JSON. Reads are strict:
// unknown fields are rejected and missing required fields produce
// path-qualified errors.
type JSONSerializer struct{}

// NewJSONSerializer creates the JSON snapshot serializer.
func NewJSONSerializer() *JSONSerializer { return &JSONSerializer{} }

// Serialize writes the snapshot document to w.
func (s *JSONSerializer) Serialize(snapshot Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to write market state document: %w", err)
	}
	return nil
}

// Deserialize reads and validates a snapshot document from r.
func (s *JSONSerializer) Deserialize(r io.Reader) (Snapshot, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var snapshot Snapshot
	if err := decoder.Decode(&snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse market state document: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return Snapshot{}, err
	}

	// A valid document holds exactly one snapshot object.
	var trailing json.RawMessage
	if err := decoder.Decode(&trailing); err != io.EOF {
		return Snapshot{}, fmt.Errorf("failed to parse market state document: unexpected trailing content")
	}

	return snapshot, nil
}
