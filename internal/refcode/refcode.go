// Package refcode parses referral codes of the form
// "<numericId>.<name>.raccoon".
package refcode

import (
	"errors"
	"strings"
)

// Suffix terminates every valid referral code.
const Suffix = ".raccoon"

var ErrMalformed = errors.New("malformed referral code")

// Parse splits a referral code into its numeric token id and name portion.
//
// The code must end with ".raccoon". The leading run of ASCII digits,
// terminated by the first '.', is the numeric id. The name is what sits
// between that first '.' and the suffix; if extra dots appear in that
// region the name is cut down to the segment adjacent to the suffix and
// the rest is dropped silently ("7.bo.b.raccoon" parses as (7, "b")).
// NOTE: the extra-dot fallback was never validated against real inputs
// and may be unintentional; it is kept as observed.
func Parse(code string) (uint64, string, error) {
	if len(code) <= len(Suffix) {
		return 0, "", ErrMalformed
	}
	if !strings.HasSuffix(code, Suffix) {
		return 0, "", ErrMalformed
	}

	body := code[:len(code)-len(Suffix)]
	dot := strings.IndexByte(body, '.')
	if dot < 0 {
		// digits run straight into the suffix, no name region
		return 0, "", ErrMalformed
	}

	var id uint64
	for i := 0; i < dot; i++ {
		c := body[i]
		if c < '0' || c > '9' {
			return 0, "", ErrMalformed
		}
		id = id*10 + uint64(c-'0')
	}

	name := body[dot+1:]
	if j := strings.LastIndexByte(name, '.'); j >= 0 {
		name = name[j+1:]
	}
	return id, name, nil
}
