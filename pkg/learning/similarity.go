package learning

import (
	"strings"

	"github.com/xrash/smetrics"
)

// Similarity returns a text similarity ratio in [0, 1], case-insensitive.
// It is 2*LCS/(len(a)+len(b)): edit distance with substitution cost 2 counts
// only the insertions and deletions outside the longest common subsequence,
// so the ratio matches the classic sequence-matcher ratio the healing
// thresholds were calibrated against.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	total := len(a) + len(b)
	return 1 - float64(dist)/float64(total)
}
