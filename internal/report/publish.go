package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"

	"sanctuary/internal/blob"
)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "census"

// Publisher renders censuses and stores them as immutable blobs.
type Publisher struct {
	store  blob.Store
	prefix string
	newID  func() string
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithIDGenerator overrides the per-run identifier (a random UUID).
func WithIDGenerator(gen func() string) PublisherOption {
	return func(p *Publisher) {
		if gen != nil {
			p.newID = gen
		}
	}
}

// NewPublisher writes under prefix on store.
func NewPublisher(store blob.Store, prefix string, opts ...PublisherOption) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	p := &Publisher{store: store, prefix: prefix, newID: func() string { return uuid.NewString() }}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the object key for one rendering of a run.
func (p *Publisher) Key(runID string, f Format) string {
	return path.Join(p.prefix, runID, "census."+f.Extension())
}

// Publish stores c once per format under a fresh run id and returns the
// stored blobs in format order. Blobs written before a failure are returned
// alongside the error.
func (p *Publisher) Publish(ctx context.Context, c Census, formats ...Format) ([]blob.Info, error) {
	if len(formats) == 0 {
		formats = Formats()
	}
	runID := p.newID()
	infos := make([]blob.Info, 0, len(formats))
	for _, f := range formats {
		var buf bytes.Buffer
		if err := Render(&buf, c, f); err != nil {
			return infos, fmt.Errorf("render %s: %w", f, err)
		}
		key := p.Key(runID, f)
		info, err := p.store.Put(ctx, key, &buf, blob.PutOptions{
			ContentType: f.ContentType(),
			Metadata: map[string]string{
				"run":          runID,
				"format":       string(f),
				"animals":      strconv.Itoa(c.Animals()),
				"generated_at": c.GeneratedAt.Format(time.RFC3339),
			},
		})
		if err != nil {
			return infos, fmt.Errorf("publish %s: %w", key, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
