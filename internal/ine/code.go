// Package ine normalizes the municipality identifiers used as the join key
// across every source dataset. The canonical form is the first 5 characters
// of an INE code (2-digit province + 3-digit municipality).
package ine

const canonicalLen = 5

// NormalizeCode reduces a raw municipality code to its canonical 5-character
// form. Boundary files carry 6 characters (a trailing control digit) and
// vote files 10 (district and section suffixes appended); both are
// prefix-truncated. Codes are opaque strings, never parsed as integers.
//
// Codes shorter than 5 characters pass through unchanged: a malformed
// upstream code then never matches a canonical key and the row surfaces as
// missing data instead of colliding under a further-truncated key.
func NormalizeCode(raw string) string {
	if len(raw) <= canonicalLen {
		return raw
	}
	return raw[:canonicalLen]
}

// IndexByCode maps records to their canonical municipality code, using the
// given accessor for each record's raw code field. When two records
// normalize to the same code the later one wins; there is no conflict
// detection. A nil or empty input yields an empty map.
func IndexByCode[R any](records []R, code func(R) string) map[string]R {
	out := make(map[string]R, len(records))
	for _, r := range records {
		out[NormalizeCode(code(r))] = r
	}
	return out
}
