package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"storesync/internal/config"
	"storesync/internal/database"
	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/models"

	"github.com/segmentio/kafka-go"
)

// Worker consumes sync events from Kafka and persists them as audit
// records. It is an observer of the sync flows, never a participant.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	reader *kafka.Reader
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        "storesync-worker",
		Topic:          events.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		db:     db,
		reader: reader,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for sync events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.SyncEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse sync event: %v", err)
			continue
		}

		if err := w.persist(&event); err != nil {
			w.logger.Error("Failed to persist sync event %s: %v", event.ID, err)
			continue
		}

		w.logger.Debug("Recorded sync event type=%s id=%s", event.Type, event.ID)
	}
}

func (w *Worker) persist(event *events.SyncEvent) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	record := &models.SyncRecord{
		EventID:   event.ID,
		Type:      event.Type,
		Data:      string(data),
		EmittedAt: event.Timestamp,
	}
	return w.db.DB.Create(record).Error
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
