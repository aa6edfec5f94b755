package ports

// Ranked is a candidate string with its similarity to the query, in [0, 1]
type Ranked struct {
	Label string
	Score float64
}

// Ranker orders candidates by similarity to a query.
// Results are sorted by descending score; an empty result means nothing
// passed the ranker's threshold.
type Ranker interface {
	Rank(query string, candidates []string) []Ranked
}
