// Package worker provides a NATS worker that processes tune playback jobs.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/beeps-service/internal/core"
	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"
)

// handleMessageTimeout bounds one playback job, including the audible part.
const handleMessageTimeout = 5 * time.Minute

var (
	// ErrScoreKeyEmpty indicates that a play request named no score object.
	ErrScoreKeyEmpty = errors.New("score key cannot be empty")
	// ErrWorkflowIDEmpty indicates that a play request carried no workflow ID.
	ErrWorkflowIDEmpty = errors.New("workflow id cannot be empty")
)

// EventHeader identifies one workflow across request and reply.
type EventHeader struct {
	WorkflowID string    `json:"workflowId"`
	Timestamp  time.Time `json:"timestamp"`
}

// PlayRequestedEvent asks the service to play the score stored under ScoreKey.
type PlayRequestedEvent struct {
	Header   EventHeader `json:"header"`
	ScoreKey string      `json:"scoreKey"`
}

// TunePlayedEvent reports what a completed playback job produced.
type TunePlayedEvent struct {
	Header          EventHeader `json:"header"`
	ScoreKey        string      `json:"scoreKey"`
	NotesPlayed     int         `json:"notesPlayed"`
	NotesSkipped    int         `json:"notesSkipped"`
	DurationSeconds float64     `json:"durationSeconds"`
}

// NatsWorker listens for play requests on a NATS subject and plays them.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	store          core.ObjectStore
	player         core.TunePlayer
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	store core.ObjectStore,
	player core.TunePlayer,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		store:          store,
		player:         player,
		log:            log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseAndValidateEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse and validate event: %v", err)

		return
	}

	summary, playErr := w.processPlayJob(ctx, event)
	if playErr != nil {
		w.log.Error("Failed to play score for event %s: %v", event.Header.WorkflowID, playErr)

		return
	}

	replyEvent := &TunePlayedEvent{
		Header:          event.Header,
		ScoreKey:        event.ScoreKey,
		NotesPlayed:     summary.NotesPlayed,
		NotesSkipped:    summary.NotesSkipped,
		DurationSeconds: summary.Duration.Seconds(),
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event for workflow %s: %v", event.Header.WorkflowID, err)
	}
}

// processPlayJob handles the core logic of downloading a score and playing it.
// Invalid notes inside the score are skipped by the player, not errors here.
func (w *NatsWorker) processPlayJob(
	ctx context.Context,
	event *PlayRequestedEvent,
) (core.PlaySummary, error) {
	scoreData, err := w.store.Download(ctx, event.ScoreKey)
	if err != nil {
		return core.PlaySummary{}, fmt.Errorf(
			"failed to download score for key '%s': %w", event.ScoreKey, err,
		)
	}

	summary, err := w.player.PlayScore(ctx, scoreData)
	if err != nil {
		return core.PlaySummary{}, fmt.Errorf("failed to play score: %w", err)
	}

	return summary, nil
}

// publishReplyEvent marshals and responds with the TunePlayedEvent.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *TunePlayedEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func (w *NatsWorker) parseAndValidateEvent(msg *nats.Msg) (*PlayRequestedEvent, error) {
	var event PlayRequestedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.Header.WorkflowID == "" {
		return nil, ErrWorkflowIDEmpty
	}

	if event.ScoreKey == "" {
		return nil, ErrScoreKeyEmpty
	}

	return &event, nil
}
