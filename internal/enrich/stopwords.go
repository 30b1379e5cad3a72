package enrich

// DefaultStopwords is the fixed English stopword set used by the language
// heuristic. The ratio of tokens found in this set decides between "en" and
// "unknown".
func DefaultStopwords() map[string]struct{} {
	words := []string{
		"the", "be", "to", "of", "and", "a", "an", "in", "that", "have",
		"i", "it", "for", "not", "on", "with", "he", "as", "you", "do",
		"at", "this", "but", "his", "by", "from", "they", "we", "say",
		"her", "she", "or", "will", "my", "one", "all", "would", "there",
		"their", "what", "so", "if", "about", "who", "get", "which", "go",
		"can", "when", "make", "like", "no", "just", "your", "than", "then",
		"its", "our", "is", "are", "was", "were", "has", "had", "been",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
