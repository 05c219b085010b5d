// Package core defines the core business logic and interfaces for the beeps service.
package core

import (
	"context"
	"time"
)

// ObjectStore defines the interface for interacting with a key-value blob store.
// It holds the plain-text score files the service plays from; synthesized audio
// is never written back.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// PlaybackHandle is an opaque reference to one in-progress sound on the output
// device. Done is closed by the device once the sound has finished, so callers
// can block on completion without polling.
type PlaybackHandle interface {
	Done() <-chan struct{}
	Playing() bool
}

// OutputDevice dispatches a finished sample buffer to the audio hardware and
// reports on its progress through a PlaybackHandle. Samples are mono, signed
// 16-bit, at the device's fixed sample rate.
type OutputDevice interface {
	Play(ctx context.Context, samples []int16) (PlaybackHandle, error)
	Close() error
}

// PlaySummary reports what a tune playback actually produced.
type PlaySummary struct {
	NotesPlayed  int
	NotesSkipped int
	Duration     time.Duration
}

// TunePlayer defines the interface for playing a full score, consumed by the
// NATS worker.
type TunePlayer interface {
	PlayScore(ctx context.Context, score []byte) (PlaySummary, error)
}
