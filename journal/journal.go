// Package journal records the outcome of every conversion request.
package journal

import (
	"context"
	"time"
)

// Entry describes one conversion. File contents are never stored.
type Entry struct {
	RequestID    string    `bson:"request_id"`
	Operation    string    `bson:"operation"`
	InputName    string    `bson:"input_name"`
	InputSize    int64     `bson:"input_size"`
	Artifact     string    `bson:"artifact,omitempty"`
	ArtifactSize int64     `bson:"artifact_size,omitempty"`
	ErrorType    string    `bson:"error_type,omitempty"`
	Error        string    `bson:"error,omitempty"`
	DurationMs   int64     `bson:"duration_ms"`
	CreatedAt    time.Time `bson:"created_at"`
}

type Journal interface {
	Record(ctx context.Context, e Entry) error
	Close(ctx context.Context) error
}

// Nop discards entries. It is used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }
func (Nop) Close(context.Context) error         { return nil }
