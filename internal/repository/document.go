package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// Status outcome of reading a persisted document
type Status int

const (
	StatusOK Status = iota
	StatusAbsent
	StatusParseError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAbsent:
		return "absent"
	case StatusParseError:
		return "parse_error"
	default:
		return "unknown"
	}
}

// LoadResult is Ok(value) | Absent | ParseError(err). Unreadable storage counts as ParseError.
type LoadResult[T any] struct {
	Status Status
	Value  T
	Err    error
}

// ErrorObserver is told about every failed load or save (op is "load" or "save").
type ErrorObserver func(op, key string)

type docOptions struct {
	schema   *jsonschema.Schema
	logger   *zap.Logger
	observer ErrorObserver
}

// DocumentOption configures a Document.
type DocumentOption func(*docOptions)

// WithSchema validates the raw JSON before decoding; a mismatch is a ParseError.
func WithSchema(s *jsonschema.Schema) DocumentOption {
	return func(o *docOptions) { o.schema = s }
}

func WithLogger(l *zap.Logger) DocumentOption {
	return func(o *docOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithErrorObserver(fn ErrorObserver) DocumentOption {
	return func(o *docOptions) { o.observer = fn }
}

// Document is one JSON value persisted under a key, with a fallback used
// whenever the stored value is absent or unusable.
type Document[T any] struct {
	store    Store
	key      string
	fallback func() T
	opts     docOptions
}

func NewDocument[T any](store Store, key string, fallback func() T, opts ...DocumentOption) *Document[T] {
	o := docOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Document[T]{store: store, key: key, fallback: fallback, opts: o}
}

// Key the document is stored under.
func (d *Document[T]) Key() string { return d.key }

// Read loads and decodes the stored value without applying the fallback.
func (d *Document[T]) Read(ctx context.Context) LoadResult[T] {
	raw, err := d.store.Load(ctx, d.key)
	if errors.Is(err, ErrNotFound) {
		return LoadResult[T]{Status: StatusAbsent}
	}
	if err != nil {
		return LoadResult[T]{Status: StatusParseError, Err: err}
	}

	if d.opts.schema != nil {
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return LoadResult[T]{Status: StatusParseError, Err: fmt.Errorf("decode %s: %w", d.key, err)}
		}
		if err := d.opts.schema.Validate(generic); err != nil {
			return LoadResult[T]{Status: StatusParseError, Err: fmt.Errorf("validate %s: %w", d.key, err)}
		}
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return LoadResult[T]{Status: StatusParseError, Err: fmt.Errorf("decode %s: %w", d.key, err)}
	}
	return LoadResult[T]{Status: StatusOK, Value: v}
}

// Load returns the stored value, or the fallback when it is absent or broken.
// A broken document is logged and otherwise ignored.
func (d *Document[T]) Load(ctx context.Context) (T, Status) {
	res := d.Read(ctx)
	switch res.Status {
	case StatusOK:
		return res.Value, StatusOK
	case StatusParseError:
		d.opts.logger.Warn("stored document unusable, using defaults",
			zap.String("key", d.key), zap.Error(res.Err))
		d.observe("load")
	}
	return d.fallback(), res.Status
}

// Save encodes v and writes it under the document key.
func (d *Document[T]) Save(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		d.observe("save")
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	if err := d.store.Save(ctx, d.key, raw); err != nil {
		d.observe("save")
		return err
	}
	return nil
}

func (d *Document[T]) observe(op string) {
	if d.opts.observer != nil {
		d.opts.observer(op, d.key)
	}
}
