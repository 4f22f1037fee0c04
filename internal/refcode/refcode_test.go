package refcode

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		code     string
		wantID   uint64
		wantName string
		wantErr  bool
	}{
		{"42.alice.raccoon", 42, "alice", false},
		{"0.zero.raccoon", 0, "zero", false},
		{"18446744.longnumber.raccoon", 18446744, "longnumber", false},
		// extra-dot fallback: only the segment next to the suffix survives
		{"7.bo.b.raccoon", 7, "b", false},
		{"7.bob.extra.raccoon", 7, "extra", false},
		// empty digit run parses as id 0
		{".alice.raccoon", 0, "alice", false},
		// empty name is left for the registry lookup to reject
		{"45..raccoon", 45, "", false},

		{"raccoon", 0, "", true},          // not longer than the suffix
		{".raccoon", 0, "", true},         // exactly the suffix
		{"12raccoon", 0, "", true},        // suffix mismatch
		{"42.alice.raccoons", 0, "", true},
		{"42.alice", 0, "", true},
		{"123.raccoon", 0, "", true},      // digits run straight into the suffix
		{"4a.alice.raccoon", 0, "", true}, // non-digit in the id run
		{"-1.alice.raccoon", 0, "", true},
	}

	for _, tc := range cases {
		id, name, err := Parse(tc.code)
		if tc.wantErr {
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Parse(%q) err = %v; want ErrMalformed", tc.code, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tc.code, err)
		}
		if id != tc.wantID || name != tc.wantName {
			t.Fatalf("Parse(%q) = (%d, %q); want (%d, %q)", tc.code, id, name, tc.wantID, tc.wantName)
		}
	}
}
