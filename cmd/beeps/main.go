// beeps is the command-line client: it plays notes and scores on the local
// audio device, or publishes a score to a running beeps-service over NATS.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/book-expert/beeps-service/internal/objectstore"
	"github.com/book-expert/beeps-service/internal/playback"
	"github.com/book-expert/beeps-service/internal/player"
	"github.com/book-expert/beeps-service/internal/worker"
	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Flag descriptions and messages.
const (
	flagNoteDesc     = "Note token to play (e.g. C#4, or the word pause)"
	flagDurationDesc = "Note duration in seconds"
	flagScoreDesc    = "Score file to play, one NOTE:DURATION line per note"
	flagPublishDesc  = "Score file to upload and play remotely via beeps-service"
	flagVolumeDesc   = "Playback volume between 0.0 and 1.0"
	flagMuteDesc     = "Suppress per-note progress output"
	flagLogsDesc     = "Directory for log files"
	flagNATSDesc     = "NATS server URL for -publish"
	flagBucketDesc   = "Object store bucket holding score files"
	flagSubjectDesc  = "Subject the beeps-service listens on"
)

// Flag names.
const (
	flagNote     = "note"
	flagDuration = "duration"
	flagScore    = "score"
	flagPublish  = "publish"
	flagVolume   = "volume"
	flagMute     = "mute"
	flagLogs     = "logs"
	flagNATS     = "nats"
	flagBucket   = "bucket"
	flagSubject  = "subject"
)

// Flag defaults.
const (
	defaultDuration = 0.5
	defaultBucket   = "SCORE_FILES"
	defaultSubject  = "tune.play.requested"
	replyTimeout    = 5 * time.Minute
)

// Error messages.
const (
	errExactlyOneMode = "exactly one of -note, -score, or -publish must be provided"
)

const logFileName = "beeps-client.log"

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	note     string
	duration float64
	score    string
	publish  string
	volume   float64
	mute     bool
	logs     string
	natsURL  string
	bucket   string
	subject  string
}

func main() {
	err := run()
	if err != nil {
		// A logger might not be initialized yet, so use the standard log package.
		log.Fatalf("Error: %v", err)
	}
}

// run is the main application entry point, returning an error on failure.
func run() error {
	flags := parseFlags()

	err := validateArguments(flags)
	if err != nil {
		flag.Usage()

		return err
	}

	logDir := flags.logs
	if logDir == "" {
		logDir = os.TempDir()
	}

	clientLog, err := logger.New(logDir, logFileName)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer clientLog.Close()

	ctx := context.Background()

	if flags.publish != "" {
		return publishScore(ctx, flags, clientLog)
	}

	return playLocally(ctx, flags, clientLog)
}

// parseFlags defines and parses command-line flags, returning them in a struct.
func parseFlags() appFlags {
	var flags appFlags
	flag.StringVar(&flags.note, flagNote, "", flagNoteDesc)
	flag.Float64Var(&flags.duration, flagDuration, defaultDuration, flagDurationDesc)
	flag.StringVar(&flags.score, flagScore, "", flagScoreDesc)
	flag.StringVar(&flags.publish, flagPublish, "", flagPublishDesc)
	flag.Float64Var(&flags.volume, flagVolume, player.NewConfig().Volume, flagVolumeDesc)
	flag.BoolVar(&flags.mute, flagMute, false, flagMuteDesc)
	flag.StringVar(&flags.logs, flagLogs, "", flagLogsDesc)
	flag.StringVar(&flags.natsURL, flagNATS, nats.DefaultURL, flagNATSDesc)
	flag.StringVar(&flags.bucket, flagBucket, defaultBucket, flagBucketDesc)
	flag.StringVar(&flags.subject, flagSubject, defaultSubject, flagSubjectDesc)
	flag.Parse()

	return flags
}

// validateArguments checks that exactly one operating mode was requested.
func validateArguments(flags appFlags) error {
	modes := 0

	for _, value := range []string{flags.note, flags.score, flags.publish} {
		if value != "" {
			modes++
		}
	}

	if modes != 1 {
		return errors.New(errExactlyOneMode)
	}

	return nil
}

// playLocally synthesizes and plays on this machine's audio device.
func playLocally(ctx context.Context, flags appFlags, clientLog *logger.Logger) error {
	cfg := player.NewConfig()
	cfg.Volume = flags.volume
	cfg.Mute = flags.mute

	device, err := playback.NewOtoDevice(cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("failed to initialize audio output: %w", err)
	}

	beepsPlayer, err := player.New(cfg, device, clientLog)
	if err != nil {
		return fmt.Errorf("invalid playback configuration: %w", err)
	}

	defer func() {
		closeErr := beepsPlayer.Close(ctx)
		if closeErr != nil {
			clientLog.Warn("Failed to shut down playback cleanly: %v", closeErr)
		}
	}()

	if flags.note != "" {
		err = beepsPlayer.PlayNote(ctx, flags.note, flags.duration)
		if err != nil {
			return fmt.Errorf("failed to play note: %w", err)
		}

		return nil
	}

	scoreData, err := os.ReadFile(flags.score)
	if err != nil {
		return fmt.Errorf("failed to read score file %q: %w", flags.score, err)
	}

	summary, err := beepsPlayer.PlayScore(ctx, scoreData)
	if err != nil {
		return fmt.Errorf("failed to play score: %w", err)
	}

	fmt.Printf(
		"Played %d notes (%d skipped), %.2fs\n",
		summary.NotesPlayed, summary.NotesSkipped, summary.Duration.Seconds(),
	)

	return nil
}

// publishScore uploads a score file to the object store and asks the running
// beeps-service to play it, waiting for the playback report.
func publishScore(ctx context.Context, flags appFlags, clientLog *logger.Logger) error {
	scoreData, err := os.ReadFile(flags.publish)
	if err != nil {
		return fmt.Errorf("failed to read score file %q: %w", flags.publish, err)
	}

	natsConnection, err := nats.Connect(flags.natsURL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", flags.natsURL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}

	scoreStore, err := objectstore.New(jetstreamContext, flags.bucket)
	if err != nil {
		return fmt.Errorf("failed to open score store: %w", err)
	}

	scoreKey := uuid.NewString() + ".txt"

	err = scoreStore.Upload(ctx, scoreKey, scoreData)
	if err != nil {
		return fmt.Errorf("failed to upload score: %w", err)
	}

	clientLog.Info("Uploaded score %q as %s", flags.publish, scoreKey)

	event := worker.PlayRequestedEvent{
		Header: worker.EventHeader{
			WorkflowID: uuid.NewString(),
			Timestamp:  time.Now().UTC(),
		},
		ScoreKey: scoreKey,
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal play request: %w", err)
	}

	replyMsg, err := natsConnection.Request(flags.subject, eventData, replyTimeout)
	if err != nil {
		return fmt.Errorf("failed to request playback: %w", err)
	}

	var reply worker.TunePlayedEvent

	err = json.Unmarshal(replyMsg.Data, &reply)
	if err != nil {
		return fmt.Errorf("failed to unmarshal playback report: %w", err)
	}

	fmt.Printf(
		"Remote playback done: %d notes (%d skipped), %.2fs\n",
		reply.NotesPlayed, reply.NotesSkipped, reply.DurationSeconds,
	)

	return nil
}
