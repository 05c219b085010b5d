// Package playback_test tests the playback serializer against a fake device.
package playback_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/book-expert/beeps-service/internal/core"
	"github.com/book-expert/beeps-service/internal/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHandle completes when finish is called.
type fakeHandle struct {
	done chan struct{}
	once sync.Once
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{done: make(chan struct{})}
}

func (h *fakeHandle) Done() <-chan struct{} {
	return h.done
}

func (h *fakeHandle) Playing() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *fakeHandle) finish() {
	h.once.Do(func() { close(h.done) })
}

// fakeDevice records every submitted buffer and how many handles were playing
// simultaneously at each dispatch.
type fakeDevice struct {
	mu            sync.Mutex
	buffers       [][]int16
	handles       []*fakeHandle
	playDelay     time.Duration
	maxConcurrent int
	closed        bool
}

func (d *fakeDevice) Play(_ context.Context, samples []int16) (core.PlaybackHandle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	playing := 0

	for _, handle := range d.handles {
		if handle.Playing() {
			playing++
		}
	}

	if playing+1 > d.maxConcurrent {
		d.maxConcurrent = playing + 1
	}

	handle := newFakeHandle()
	d.buffers = append(d.buffers, samples)
	d.handles = append(d.handles, handle)

	if d.playDelay > 0 {
		go func() {
			time.Sleep(d.playDelay)
			handle.finish()
		}()
	}

	return handle, nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true

	return nil
}

func TestSubmitNeverOverlapsPlayback(t *testing.T) {
	t.Parallel()

	device := &fakeDevice{playDelay: 10 * time.Millisecond}
	serializer := playback.NewSerializer(device)

	ctx := context.Background()

	require.NoError(t, serializer.Submit(ctx, []int16{1}))
	require.NoError(t, serializer.Submit(ctx, []int16{2}))
	require.NoError(t, serializer.Submit(ctx, []int16{3}))

	assert.Equal(t, 1, device.maxConcurrent)
	require.Len(t, device.buffers, 3)
	assert.Equal(t, []int16{1}, device.buffers[0])
	assert.Equal(t, []int16{2}, device.buffers[1])
	assert.Equal(t, []int16{3}, device.buffers[2])
}

func TestSubmitWaitIsInterruptedByContext(t *testing.T) {
	t.Parallel()

	// No playDelay: the first handle never finishes on its own.
	device := &fakeDevice{}
	serializer := playback.NewSerializer(device)

	require.NoError(t, serializer.Submit(context.Background(), []int16{1}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := serializer.Submit(ctx, []int16{2})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, device.buffers, 1)
}

func TestSubmitPauseWaitsOutPreviousSound(t *testing.T) {
	t.Parallel()

	device := &fakeDevice{playDelay: 15 * time.Millisecond}
	serializer := playback.NewSerializer(device)

	ctx := context.Background()

	require.NoError(t, serializer.Submit(ctx, []int16{1}))

	start := time.Now()
	require.NoError(t, serializer.SubmitPause(ctx, 10*time.Millisecond))

	// Pause begins only after the in-flight sound drains.
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestCloseDrainsInFlightSound(t *testing.T) {
	t.Parallel()

	device := &fakeDevice{playDelay: 15 * time.Millisecond}
	serializer := playback.NewSerializer(device)

	require.NoError(t, serializer.Submit(context.Background(), []int16{1}))

	start := time.Now()
	require.NoError(t, serializer.Close(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	assert.True(t, device.closed)
}

func TestCloseWithoutPlaybackClosesDevice(t *testing.T) {
	t.Parallel()

	device := &fakeDevice{}
	serializer := playback.NewSerializer(device)

	require.NoError(t, serializer.Close(context.Background()))
	assert.True(t, device.closed)
}
