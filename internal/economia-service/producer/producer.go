package producer

import (
	"context"
	"encoding/json"

	sharedkafka "github.com/econplay/economia-platform/internal/shared/kafka"
	"github.com/econplay/economia-platform/pkg/contracts/events"
)

// Producer serializa e publica os eventos de domínio nos tópicos Kafka.
type Producer struct {
	pix     *sharedkafka.Writer
	apostas *sharedkafka.Writer

	// Callbacks de observabilidade; injetados pelo main com counters Prometheus.
	OnPublished func(topic string)
	OnError     func(topic string)
}

func New(pixWriter, apostasWriter *sharedkafka.Writer) *Producer {
	return &Producer{pix: pixWriter, apostas: apostasWriter}
}

func (p *Producer) publicar(ctx context.Context, w *sharedkafka.Writer, key string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := sharedkafka.WriteJSON(ctx, w, key, b); err != nil {
		if p.OnError != nil {
			p.OnError(w.Topic)
		}
		return err
	}
	if p.OnPublished != nil {
		p.OnPublished(w.Topic)
	}
	return nil
}

// PublicarPixConcluido publica no tópico pix_completed, chaveado pelo remetente
// para preservar a ordem por usuário.
func (p *Producer) PublicarPixConcluido(ctx context.Context, ev events.PixCompleted) error {
	return p.publicar(ctx, p.pix, ev.RemetenteID, ev)
}

func (p *Producer) PublicarApostaResolvida(ctx context.Context, ev events.ApostaResolvida) error {
	return p.publicar(ctx, p.apostas, ev.ApostaID, ev)
}
