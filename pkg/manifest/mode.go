package manifest

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Mode represents the lower 9 permission bits of a file mode. It is
// serialized on the wire as an octal string (e.g. "644"), mirroring
// original_source/src/manifest.rs's deserialize_octal.
type Mode uint32

// MarshalJSON implements json.Marshaler, rendering the mode as an octal
// string.
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("%03o", uint32(m)&0o777))
}

// UnmarshalJSON implements json.Unmarshaler, parsing an octal string. A
// malformed value is a hard parse error rather than a silently-dropped
// field.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("permissions must be an octal string: %w", err)
	}

	value, err := strconv.ParseUint(text, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid octal permissions %q: %w", text, err)
	}

	*m = Mode(value & 0o777)
	return nil
}
