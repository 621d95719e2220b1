package corpus

import "strings"

// CategoryRule maps a filename keyword to a category label.
// Rules are evaluated in order; the first match wins.
type CategoryRule struct {
	Keyword string
	Label   string
}

// CategoryOther is the fallback label when no rule matches.
const CategoryOther = "Lainnya"

// DefaultCategoryRules is the ordered rule list for the Indonesian corpus.
var DefaultCategoryRules = []CategoryRule{
	{Keyword: "sejarah", Label: "Sejarah"},
	{Keyword: "wisata", Label: "Wisata"},
	{Keyword: "budaya", Label: "Budaya"},
}

// Classify assigns a category by case-insensitive substring match of each
// rule keyword against the filename. No match yields CategoryOther.
func Classify(filename string, rules []CategoryRule) string {
	lower := strings.ToLower(filename)
	for _, rule := range rules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Label
		}
	}
	return CategoryOther
}

// Categories returns the ordered distinct category list: rule labels in
// rule order, followed by the fallback label.
func Categories(rules []CategoryRule) []string {
	seen := make(map[string]struct{}, len(rules)+1)
	out := make([]string, 0, len(rules)+1)
	for _, rule := range rules {
		if _, ok := seen[rule.Label]; ok {
			continue
		}
		seen[rule.Label] = struct{}{}
		out = append(out, rule.Label)
	}
	if _, ok := seen[CategoryOther]; !ok {
		out = append(out, CategoryOther)
	}
	return out
}
