package transcript

import (
	"encoding/json"
	"fmt"
	"os"

	"clipdeck/internal/fileutil"
)

// Load reads a transcript JSON file.
func Load(path string) (Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	return Decode(data)
}

// Decode parses transcript JSON. A payload without a segments array is
// reported as malformed rather than as an empty transcript.
func Decode(data []byte) (Transcript, error) {
	var envelope struct {
		Segments json.RawMessage `json:"segments"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Transcript{}, &MalformedError{Segment: -1, Word: -1, Reason: fmt.Sprintf("decode json: %v", err)}
	}
	if len(envelope.Segments) == 0 || string(envelope.Segments) == "null" {
		return Transcript{}, &MalformedError{Segment: -1, Word: -1, Reason: "missing segments"}
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return Transcript{}, &MalformedError{Segment: -1, Word: -1, Reason: fmt.Sprintf("decode json: %v", err)}
	}
	return t, nil
}

// Save writes the transcript as indented JSON, atomically.
func Save(path string, t Transcript) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
