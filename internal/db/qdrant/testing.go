package qdrant

// NewStoreForTest creates a Store over a stub points client (test-only).
func NewStoreForTest(c pointsClient) *Store {
	return &Store{client: c}
}
