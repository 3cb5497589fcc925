package consumer

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

// Pipeline — конвейер уведомлений, вызывается синхронно на каждое событие.
type Pipeline interface {
	ProcessEvent(ctx context.Context, event dto.ChangeEvent) error
}

type handler struct {
	pipeline Pipeline
	log      zerolog.Logger
}

func (h *handler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *handler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim коммитит offset только после успешного прохода конвейера.
// Ошибка конвейера прерывает claim — незакоммиченное сообщение брокер
// довезёт повторно (at-least-once, без дедупликации).
func (h *handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var event dto.ChangeEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			// битый payload ретраить бессмысленно — пропускаем, чтобы
			// не заклинить партицию
			h.log.Warn().
				Err(err).
				Str("topic", msg.Topic).
				Int64("offset", msg.Offset).
				Msg("malformed change event, skipped")
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.pipeline.ProcessEvent(sess.Context(), event); err != nil {
			h.log.Error().
				Err(err).
				Int64("personel_id", event.PersonelID).
				Str("operation", event.OperationType).
				Int64("offset", msg.Offset).
				Msg("pipeline failed, message will be redelivered")

			return err
		}

		sess.MarkMessage(msg, "")
	}

	return nil
}
