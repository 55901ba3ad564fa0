package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/notify"
)

// StartRedisSubscriber inicia uma goroutine que escuta o canal de notificações
// no Redis e repassa cada mensagem aos sockets inscritos no usuário de destino.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, canal string, hub *Hub, logger *zap.Logger) {
	sub := r.Subscribe(ctx, canal)
	ch := sub.Channel()
	go func() {
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case msg := <-ch:
				if msg == nil {
					continue
				}
				var n notify.Notificacao
				if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
					logger.Warn("notificação com payload inválido", zap.Error(err))
					continue
				}
				hub.Broadcast(n.UserID, n)
			}
		}
	}()
}
