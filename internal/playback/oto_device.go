package playback

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/book-expert/beeps-service/internal/core"
	"github.com/ebitengine/oto/v3"
)

// completionPollInterval is how often the device checks whether the audio
// driver has drained a player. oto exposes no completion callback, so the
// device watches IsPlaying from a goroutine and signals waiters through the
// handle's channel instead of making callers spin.
const completionPollInterval = 5 * time.Millisecond

const bytesPerSample = 2

// OtoDevice implements core.OutputDevice on top of an oto/v3 context.
// One mono, signed 16-bit context is shared by every sound it plays.
type OtoDevice struct {
	ctx        *oto.Context
	sampleRate int
}

// NewOtoDevice initializes the audio driver for the given sample rate and
// blocks until it is ready.
func NewOtoDevice(sampleRate int) (*OtoDevice, error) {
	options := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio output: %w", err)
	}

	<-ready

	return &OtoDevice{
		ctx:        ctx,
		sampleRate: sampleRate,
	}, nil
}

// Play starts the buffer on a fresh oto player and returns a handle whose
// Done channel closes once the driver reports the sound finished.
func (d *OtoDevice) Play(ctx context.Context, samples []int16) (core.PlaybackHandle, error) {
	player := d.ctx.NewPlayer(bytes.NewReader(pcmBytes(samples)))
	player.Play()

	handle := &otoHandle{
		player: player,
		done:   make(chan struct{}),
	}

	go handle.watch(ctx)

	return handle, nil
}

// Close releases the device. The oto context itself has no close; suspending
// it stops the driver from pulling further samples.
func (d *OtoDevice) Close() error {
	err := d.ctx.Suspend()
	if err != nil {
		return fmt.Errorf("failed to suspend audio output: %w", err)
	}

	return nil
}

type otoHandle struct {
	player *oto.Player
	done   chan struct{}
}

func (h *otoHandle) Done() <-chan struct{} {
	return h.done
}

func (h *otoHandle) Playing() bool {
	select {
	case <-h.done:
		return false
	default:
		return h.player.IsPlaying()
	}
}

// watch polls the driver at a coarse interval and closes the done channel
// when the sound has drained, releasing the player.
func (h *otoHandle) watch(ctx context.Context) {
	defer close(h.done)

	ticker := time.NewTicker(completionPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !h.player.IsPlaying() {
				_ = h.player.Close()

				return
			}
		case <-ctx.Done():
			_ = h.player.Close()

			return
		}
	}
}

// pcmBytes serializes mono samples as little-endian signed 16-bit PCM.
func pcmBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*bytesPerSample)

	for i, sample := range samples {
		binary.LittleEndian.PutUint16(data[i*bytesPerSample:], uint16(sample))
	}

	return data
}
