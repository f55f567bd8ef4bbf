package passage

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/regask/internal/db"
	"github.com/kailas-cloud/regask/internal/domain"
	dompassage "github.com/kailas-cloud/regask/internal/domain/passage"
)

// DefaultContentField is the stored field that holds passage text.
const DefaultContentField = "content"

// store is the consumer interface for passage search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config describes where passages live in the vector index.
type Config struct {
	IndexName      string
	VectorField    string
	ContentField   string
	MetadataFields []string // empty returns every stored field as metadata
	KeyPrefix      string   // stripped from entry keys to form passage IDs
}

// Repo implements usecase/retrieval.Repository over a db.Searcher.
type Repo struct {
	store store
	cfg   Config
}

// New creates a passage repository.
func New(s store, cfg Config) *Repo {
	if cfg.ContentField == "" {
		cfg.ContentField = DefaultContentField
	}
	return &Repo{store: s, cfg: cfg}
}

// SearchKNN returns up to k passages nearest to vector, in index order.
func (r *Repo) SearchKNN(ctx context.Context, vector []float32, k int) ([]dompassage.Passage, error) {
	q := &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		VectorField:  r.cfg.VectorField,
		Vector:       vector,
		K:            k,
		ReturnFields: r.returnFields(),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w: %w", r.cfg.IndexName, domain.ErrRetrieverUnavailable, err)
	}

	return r.toPassages(sr, k), nil
}

func (r *Repo) returnFields() []string {
	if len(r.cfg.MetadataFields) == 0 {
		return nil
	}
	fields := make([]string, 0, len(r.cfg.MetadataFields)+1)
	fields = append(fields, r.cfg.ContentField)
	for _, f := range r.cfg.MetadataFields {
		if f != r.cfg.ContentField {
			fields = append(fields, f)
		}
	}
	return fields
}

// toPassages converts search entries. Entries without the content field are
// not passages and are dropped. The result never exceeds k.
func (r *Repo) toPassages(sr *db.SearchResult, k int) []dompassage.Passage {
	if sr == nil || len(sr.Entries) == 0 {
		return []dompassage.Passage{}
	}

	out := make([]dompassage.Passage, 0, min(len(sr.Entries), k))
	for _, e := range sr.Entries {
		if len(out) == k {
			break
		}
		text, ok := e.Fields[r.cfg.ContentField]
		if !ok {
			continue
		}
		meta := make(map[string]string, len(e.Fields))
		for name, v := range e.Fields {
			if name == r.cfg.ContentField || name == r.vectorField() {
				continue
			}
			meta[name] = v
		}
		id := strings.TrimPrefix(e.Key, r.cfg.KeyPrefix)
		out = append(out, dompassage.Reconstruct(id, text, meta, e.Score))
	}
	return out
}

func (r *Repo) vectorField() string {
	if r.cfg.VectorField == "" {
		return db.DefaultVectorField
	}
	return r.cfg.VectorField
}
