package localstore

import (
	"math"
	"strings"
)

// EstimateUTF16Bytes returns the storage cost of s at two bytes per UTF-16 code unit
func EstimateUTF16Bytes(s string) int {
	units := 0
	for _, r := range s {
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
	}
	return units * 2
}

// EstimateDecodedSize approximates the decoded byte size of a base64 photo,
// ignoring any data URI header. It is ceil(len(payload) * 0.75), not an exact count.
func EstimateDecodedSize(photo string) int {
	payload := photo
	if _, after, ok := strings.Cut(photo, ","); ok {
		payload = after
	}
	return int(math.Ceil(float64(len(payload)) * 0.75))
}
