package resolver

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// process lowercases s and turns every non-alphanumeric rune into a space.
func process(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ratio is the normalized edit similarity of a and b in [0, 100].
func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 100 * (1 - float64(dist)/float64(longest))
}

// partialRatio is the best ratio of the shorter string against every equally long
// window of the longer one.
func partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		if len(rb) == 0 {
			return 100
		}
		return 0
	}
	short := string(ra)
	best := 0.0
	for i := 0; i+len(ra) <= len(rb); i++ {
		if r := ratio(short, string(rb[i:i+len(ra)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSortRatio(a, b string) float64 {
	return ratio(sortedTokens(a), sortedTokens(b))
}

func partialTokenSortRatio(a, b string) float64 {
	return partialRatio(sortedTokens(a), sortedTokens(b))
}

// tokenSetRatio compares the shared tokens against each side's shared-plus-rest form.
// A full containment of one token set in the other scores 100.
func tokenSetRatio(a, b string, score func(string, string) float64) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	var sect, onlyA, onlyB []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			sect = append(sect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	if len(sect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}
	sort.Strings(sect)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(sect, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := score(withA, withB)
	if base != "" {
		best = math.Max(best, score(base, withA))
		best = math.Max(best, score(base, withB))
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

// weightedRatio blends the plain, partial and token based ratios of two processed
// strings. Partial matches are discounted more the further apart the lengths are.
func weightedRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	la, lb := float64(len([]rune(a))), float64(len([]rune(b)))
	lenRatio := math.Max(la, lb) / math.Min(la, lb)

	best := ratio(a, b)
	const tokenScale = 0.95

	if lenRatio < 1.5 {
		best = math.Max(best, tokenSortRatio(a, b)*tokenScale)
		best = math.Max(best, tokenSetRatio(a, b, ratio)*tokenScale)
		return int(math.Round(best))
	}

	partialScale := 0.9
	if lenRatio >= 8 {
		partialScale = 0.6
	}
	best = math.Max(best, partialRatio(a, b)*partialScale)
	best = math.Max(best, partialTokenSortRatio(a, b)*tokenScale*partialScale)
	best = math.Max(best, tokenSetRatio(a, b, partialRatio)*tokenScale*partialScale)
	return int(math.Round(best))
}

// Score returns the similarity of query and label in [0, 100].
func Score(query, label string) int {
	return weightedRatio(process(query), process(label))
}
