// Package playback serializes sample buffers onto a single audio output
// device, guaranteeing that at most one sound plays at a time and that
// playback order matches submission order.
package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/book-expert/beeps-service/internal/core"
)

// Serializer owns at most one in-flight playback handle. It is meant for
// sequential use from a single goroutine; concurrent callers need external
// mutual exclusion around Submit and SubmitPause.
type Serializer struct {
	device  core.OutputDevice
	current core.PlaybackHandle
}

// NewSerializer creates a Serializer dispatching to the given device.
func NewSerializer(device core.OutputDevice) *Serializer {
	return &Serializer{
		device:  device,
		current: nil,
	}
}

// Submit waits for any previous sound to finish, then dispatches the buffer
// to the output device. The wait blocks on the handle's completion channel.
func (s *Serializer) Submit(ctx context.Context, samples []int16) error {
	err := s.waitForCurrent(ctx)
	if err != nil {
		return err
	}

	handle, err := s.device.Play(ctx, samples)
	if err != nil {
		return fmt.Errorf("failed to dispatch buffer to output device: %w", err)
	}

	s.current = handle

	return nil
}

// SubmitPause waits for any previous sound to finish, then blocks for the
// given duration. No buffer is produced or dispatched.
func (s *Serializer) SubmitPause(ctx context.Context, duration time.Duration) error {
	err := s.waitForCurrent(ctx)
	if err != nil {
		return err
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pause interrupted: %w", ctx.Err())
	}
}

// Close waits out whatever sound is still in flight, so discarding the
// serializer never truncates audio, then releases the device.
func (s *Serializer) Close(ctx context.Context) error {
	waitErr := s.waitForCurrent(ctx)

	closeErr := s.device.Close()
	if closeErr != nil {
		return fmt.Errorf("failed to close output device: %w", closeErr)
	}

	return waitErr
}

func (s *Serializer) waitForCurrent(ctx context.Context) error {
	if s.current == nil {
		return nil
	}

	select {
	case <-s.current.Done():
		s.current = nil

		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for previous sound interrupted: %w", ctx.Err())
	}
}
