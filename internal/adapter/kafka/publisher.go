// Package kafka publishes computed scenario results as events for downstream
// consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/aquaforesee/water-scenario-service/internal/config"
	"github.com/aquaforesee/water-scenario-service/internal/domain"
	"github.com/aquaforesee/water-scenario-service/internal/observability"
)

// ResultEnvelope is the wire form of one computed scenario. District-level
// predictions stay in Postgres; the event carries the portfolio view.
type ResultEnvelope struct {
	ScenarioID string                `json:"scenario_id"`
	Params     domain.ScenarioParams `json:"params"`
	Summary    domain.Summary        `json:"summary"`
	AIEnhanced bool                  `json:"ai_enhanced"`
	ComputedAt time.Time             `json:"computed_at"`
}

// Publisher produces scenario result events to the configured topic.
type Publisher struct {
	writer  *kafkago.Writer
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, clock: clock, metrics: metrics, logger: logger}
}

// Publish emits one scenario result keyed by scenario id.
func (p *Publisher) Publish(ctx context.Context, rec domain.PredictionRecord) error {
	msg, err := serializeRecord(rec, p.clock.Now().UTC())
	if err != nil {
		p.metrics.EventsPublished.WithLabelValues("error").Inc()
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.EventsPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("publish scenario %s: %w", rec.ScenarioID, err)
	}

	p.metrics.EventsPublished.WithLabelValues("success").Inc()
	p.logger.Debug("scenario result published", "scenario_id", rec.ScenarioID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeRecord marshals a prediction record into a Kafka message. Headers
// expose the ai_enhanced flag so consumers can filter without decoding.
func serializeRecord(rec domain.PredictionRecord, at time.Time) (kafkago.Message, error) {
	env := ResultEnvelope{
		ScenarioID: rec.ScenarioID,
		Params:     rec.Params,
		Summary:    rec.Result.Summary,
		AIEnhanced: rec.Result.AIEnhanced,
		ComputedAt: at,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize scenario result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.ScenarioID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "ai_enhanced", Value: []byte(strconv.FormatBool(rec.Result.AIEnhanced))},
			{Key: "computed_at", Value: []byte(at.Format(time.RFC3339))},
		},
	}, nil
}
