package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalInt64 tracks presence and value of a nullable foreign key in a
// JSON PATCH body (RFC 7396), which *int64 cannot express:
//   - Present=false: field absent (keep)
//   - Present=true, Value=nil: JSON null (clear)
//   - Present=true, Value=&n: set to n
type OptionalInt64 struct {
	Present bool
	Value   *int64
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	o.Value = &n
	return nil
}
