package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSStore keeps documents in a JetStream key-value bucket.
type NATSStore struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

var _ Store = (*NATSStore)(nil)

// NewNATSStore wraps an existing bucket handle.
func NewNATSStore(kv nats.KeyValue) *NATSStore {
	return &NATSStore{kv: kv}
}

// OpenNATS connects to url and binds bucket, creating it on first use.
func OpenNATS(url, bucket string) (*NATSStore, error) {
	nc, err := nats.Connect(url, nats.Name("redfragances"))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "storefront documents",
			History:     1,
		})
	}
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("bind bucket %s: %w", bucket, err)
	}
	return &NATSStore{conn: nc, kv: kv}, nil
}

func (s *NATSStore) Load(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.kv.Get(key)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	return entry.Value(), nil
}

func (s *NATSStore) Save(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if _, err := s.kv.Put(key, value); err != nil {
		return fmt.Errorf("kv put %s: %w", key, err)
	}
	return nil
}

func (s *NATSStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}
