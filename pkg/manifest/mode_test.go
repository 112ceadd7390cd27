package manifest

import (
	"encoding/json"
	"testing"
)

func TestModeOctalRoundTrip(t *testing.T) {
	cases := []struct {
		mode Mode
		text string
	}{
		{0o644, `"644"`},
		{0o755, `"755"`},
		{0o600, `"600"`},
		{0o777, `"777"`},
		{0, `"000"`},
	}

	for _, c := range cases {
		data, err := json.Marshal(c.mode)
		if err != nil {
			t.Fatal("unable to marshal mode:", err)
		}
		if string(data) != c.text {
			t.Errorf("mode %o marshaled to %s, expected %s", c.mode, data, c.text)
		}

		var decoded Mode
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatal("unable to unmarshal mode:", err)
		}
		if decoded != c.mode {
			t.Errorf("round-tripped mode %o did not match original %o", decoded, c.mode)
		}
	}
}

func TestModeUnmarshalRejectsNonString(t *testing.T) {
	var m Mode
	if err := json.Unmarshal([]byte("644"), &m); err == nil {
		t.Error("unmarshal of a bare number unexpectedly succeeded")
	}
}

func TestModeUnmarshalRejectsMalformedOctal(t *testing.T) {
	var m Mode
	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Error("unmarshal of a non-octal string unexpectedly succeeded")
	}
}

func TestModeUnmarshalMasksHighBits(t *testing.T) {
	var m Mode
	if err := json.Unmarshal([]byte(`"1644"`), &m); err != nil {
		t.Fatal("unable to unmarshal mode:", err)
	}
	if m != 0o644 {
		t.Error("mode was not masked to the lower 9 bits:", m)
	}
}
