package domain

import (
	"fmt"
	"strings"
	"time"
)

// AnalysisKind selects the prompt template used for a derived analysis.
type AnalysisKind string

const (
	KindSummarize AnalysisKind = "summarize"
	KindKeywords  AnalysisKind = "keywords"
	KindSentiment AnalysisKind = "sentiment"
	// KindCustom carries a caller-supplied question and is never cached.
	KindCustom AnalysisKind = "custom"
)

// CacheableKinds lists the kinds whose results go to the result cache.
var CacheableKinds = []AnalysisKind{KindSummarize, KindKeywords, KindSentiment}

// Cacheable reports whether results for the kind may be stored.
func (k AnalysisKind) Cacheable() bool {
	for _, kind := range CacheableKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ParseAnalysisKind maps user input to a kind.
func ParseAnalysisKind(raw string) (AnalysisKind, error) {
	kind := AnalysisKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case KindSummarize, KindKeywords, KindSentiment, KindCustom:
		return kind, nil
	default:
		return "", &InputError{Op: "parse analysis kind", Reason: fmt.Sprintf("unknown kind %q", raw)}
	}
}

// AnalysisResult is a generation result as stored in the result cache.
type AnalysisResult struct {
	Kind        AnalysisKind `json:"kind"`
	Fingerprint string       `json:"fingerprint"`
	Result      string       `json:"result"`
	Model       string       `json:"model,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
