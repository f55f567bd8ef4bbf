package db

import "fmt"

// DefaultVectorField is the vector attribute name used when KNNQuery.VectorField is empty.
const DefaultVectorField = "vector"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Vector       []float32
	K            int
	ReturnFields []string // empty returns every stored field
}

// Validate checks the query shape shared by every backend.
func (q *KNNQuery) Validate() error {
	if q.IndexName == "" {
		return fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return fmt.Errorf("k must be positive")
	}
	return nil
}

// Field returns the vector attribute to search.
func (q *KNNQuery) Field() string {
	if q.VectorField == "" {
		return DefaultVectorField
	}
	return q.VectorField
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit. Score is a similarity in [0, 1], higher is closer.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
