package strategy

// Strategy is the retrieval strategy that produced a search hit.
type Strategy string

// Retrieval strategy constants.
const (
	// Lexical is term- or boolean-based full-text retrieval.
	Lexical Strategy = "lexical"
	// Semantic is embedding-similarity retrieval.
	Semantic Strategy = "semantic"
	// Both marks a hit returned by both strategies after merging.
	Both Strategy = "both"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == Lexical || s == Semantic || s == Both
}
