package registry

import (
	"fmt"
	"strings"
)

// JoinKeywords flattens a keyword list for flat-map storage. The join
// must be lossless, so keywords containing commas are rejected rather
// than silently corrupted.
func JoinKeywords(keywords []string) (string, error) {
	for _, kw := range keywords {
		if strings.Contains(kw, ",") {
			return "", fmt.Errorf("%w: %q", ErrKeywordComma, kw)
		}
	}
	return strings.Join(keywords, ","), nil
}

// SplitKeywords reverses JoinKeywords.
func SplitKeywords(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
