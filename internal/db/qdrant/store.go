// Package qdrant implements the passage index on Qdrant over gRPC.
package qdrant

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/regask/internal/db"
)

var _ db.Store = (*Store)(nil)

const defaultPort = 6334

// Config holds connection parameters for a Qdrant store.
type Config struct {
	Addr   string // host:port of the gRPC endpoint
	APIKey string
	UseTLS bool
}

// pointsClient is the subset of *qdrant.Client the store calls.
type pointsClient interface {
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	HealthCheck(ctx context.Context) (*qdrant.HealthCheckReply, error)
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	Close() error
}

// Store implements db.Store on a Qdrant collection. The collection must use
// cosine distance so that point scores are similarities.
type Store struct {
	client pointsClient
}

// NewStore creates a Qdrant store. A missing port defaults to 6334.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("addr is required")
	}

	host, portStr, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		host = cfg.Addr
		portStr = strconv.Itoa(defaultPort)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port in qdrant addr: %w", err)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &Store{client: client}, nil
}

// Ping checks connectivity via the gRPC health check.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the gRPC connection.
func (s *Store) Close() {
	_ = s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for qdrant: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// IndexExists reports whether the collection exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	ok, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return ok, nil
}

// SearchKNN queries the nearest points of the collection named by q.IndexName.
// VectorField selects a named vector; the default field means the unnamed vector.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	req := &qdrant.QueryPoints{
		CollectionName: q.IndexName,
		Query:          qdrant.NewQuery(q.Vector...),
		Limit:          qdrant.PtrOf(uint64(q.K)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if len(q.ReturnFields) > 0 {
		req.WithPayload = qdrant.NewWithPayloadInclude(q.ReturnFields...)
	}
	if q.VectorField != "" && q.VectorField != db.DefaultVectorField {
		req.Using = qdrant.PtrOf(q.VectorField)
	}

	points, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(points))
	for _, p := range points {
		entries = append(entries, toEntry(p))
	}
	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

func toEntry(p *qdrant.ScoredPoint) db.SearchEntry {
	return db.SearchEntry{
		Key:    pointID(p.GetId()),
		Score:  float64(p.GetScore()),
		Fields: payloadFields(p.GetPayload()),
	}
}

func pointID(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if u := id.GetUuid(); u != "" {
		return u
	}
	return strconv.FormatUint(id.GetNum(), 10)
}

// payloadFields flattens scalar payload values to strings; lists and structs are dropped.
func payloadFields(payload map[string]*qdrant.Value) map[string]string {
	m := make(map[string]string, len(payload))
	for k, v := range payload {
		switch kind := v.GetKind().(type) {
		case *qdrant.Value_StringValue:
			m[k] = kind.StringValue
		case *qdrant.Value_IntegerValue:
			m[k] = strconv.FormatInt(kind.IntegerValue, 10)
		case *qdrant.Value_DoubleValue:
			m[k] = strconv.FormatFloat(kind.DoubleValue, 'g', -1, 64)
		case *qdrant.Value_BoolValue:
			m[k] = strconv.FormatBool(kind.BoolValue)
		}
	}
	return m
}
