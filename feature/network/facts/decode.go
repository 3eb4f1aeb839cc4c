package facts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Decode reads a collection document: a JSON object keyed by device key.
// A device entry that cannot be decoded becomes a failed record instead of failing the
// whole document, so one bad parser output never hides the rest of the fleet.
func Decode(r io.Reader) (Collection, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}

	out := make(Collection, len(raw))
	for key, msg := range raw {
		out[key] = DecodeRecord(msg)
	}
	return out, nil
}

// DecodeRecord decodes one device entry. Invalid input yields a failed record.
func DecodeRecord(data []byte) Record {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{Failed: true, FailedReason: fmt.Sprintf("unparseable collection result: %v", err)}
	}
	return rec
}

// LoadFile decodes the collection document at path.
func LoadFile(path string) (Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open facts file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
