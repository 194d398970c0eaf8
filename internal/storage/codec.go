package storage

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// encodeValue serializes v as JSON and wraps it in base64. The encoding
// keeps values transport-safe; it is not encryption.
func encodeValue(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling value: %w", err)
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

// decodeValue reverses encodeValue. Values that are not valid base64 are
// taken as raw JSON, which keeps hand-edited or legacy values readable.
func decodeValue(raw string, v any) error {
	payload, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		payload = []byte(raw)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("unmarshaling value: %w", err)
	}
	return nil
}
