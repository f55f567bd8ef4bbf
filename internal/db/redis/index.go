package redis

import (
	"context"

	"github.com/kailas-cloud/regask/internal/db"
)

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
// Newer servers answer "no such index" instead.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}
