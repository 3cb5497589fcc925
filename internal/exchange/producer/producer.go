package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

// EventProducer публикует ChangeEvent в durable-топик с фиксированным
// routing key (ключ сообщения). Отправка best-effort: ошибка публикации
// логируется и отдаётся вызывающему, мутацию записи она не откатывает.
type EventProducer struct {
	sp         sarama.SyncProducer
	topic      string
	routingKey string
	source     string
	log        zerolog.Logger
}

type Config struct {
	Topic      string
	RoutingKey string
	Source     string
}

func NewEventProducer(sp sarama.SyncProducer, cfg Config, log zerolog.Logger) *EventProducer {
	return &EventProducer{
		sp:         sp,
		topic:      cfg.Topic,
		routingKey: cfg.RoutingKey,
		source:     cfg.Source,
		log:        log.With().Str("component", "EventProducer").Logger(),
	}
}

func (p *EventProducer) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

func (p *EventProducer) PublishChange(ctx context.Context, event dto.ChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	return p.send(ctx, p.routingKey, body, map[string]string{
		"event-kind":   strings.ToLower(event.OperationType),
		"source":       p.source,
		"content-type": "application/json",
	})
}

func (p *EventProducer) send(_ context.Context, key string, value []byte, headers map[string]string) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: hs,
	}

	part, off, err := p.sp.SendMessage(msg)
	if err != nil {
		p.log.Error().
			Err(err).
			Str("topic", p.topic).
			Str("key", key).
			Int("bytes", len(value)).
			Msg("failed to send kafka message")

		return fmt.Errorf("%w: %v", dto.ErrPublishFailed, err)
	}

	p.log.Info().
		Str("topic", p.topic).
		Str("key", key).
		Int32("partition", part).
		Int64("offset", off).
		Int("bytes", len(value)).
		Msg("kafka message sent")

	return nil
}
