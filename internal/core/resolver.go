package core

import "github.com/JonMunkholm/consumo/internal/fuzzy"

// Resolver finds the catalog name a free-text name refers to.
// Implementations must be pure: the same arguments give the same answer.
type Resolver interface {
	// Resolve returns the best-scoring candidate if its score is at least
	// threshold (0-100). Ties go to the earliest candidate.
	Resolve(query string, candidates []string, threshold int) (string, bool)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(query string, candidates []string, threshold int) (string, bool)

// Resolve calls f.
func (f ResolverFunc) Resolve(query string, candidates []string, threshold int) (string, bool) {
	return f(query, candidates, threshold)
}

// ScoreFunc scores the similarity of two names on a 0-100 scale.
type ScoreFunc func(a, b string) int

// FuzzyResolver resolves names by approximate string similarity.
type FuzzyResolver struct {
	Score ScoreFunc
}

// NewFuzzyResolver returns a resolver using the token-aware weighted ratio.
func NewFuzzyResolver() *FuzzyResolver {
	return &FuzzyResolver{Score: fuzzy.WRatio}
}

// Resolve implements Resolver. Empty candidate lists never call the scorer.
func (r *FuzzyResolver) Resolve(query string, candidates []string, threshold int) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	threshold = clampThreshold(threshold)

	best, bestScore := "", -1
	for _, c := range candidates {
		if score := r.Score(query, c); score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore >= threshold {
		return best, true
	}
	return "", false
}

func clampThreshold(t int) int {
	if t < 0 {
		return 0
	}
	if t > 100 {
		return 100
	}
	return t
}
