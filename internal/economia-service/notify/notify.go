package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Notificacao é a mensagem publicada no canal Redis e entregue aos sockets.
type Notificacao struct {
	UserID   string    `json:"user_id"`
	Mensagem string    `json:"mensagem"`
	Ts       time.Time `json:"ts"`
}

// RedisNotifier publica notificações no canal pub/sub do Redis.
// Melhor esforço: quem chama decide se loga e segue.
type RedisNotifier struct {
	rdb    *redis.Client
	canal  string
	logger *zap.Logger
}

func NewRedisNotifier(rdb *redis.Client, canal string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, canal: canal, logger: logger}
}

func (n *RedisNotifier) Notificar(ctx context.Context, userID, mensagem string) error {
	b, err := json.Marshal(Notificacao{
		UserID:   userID,
		Mensagem: mensagem,
		Ts:       time.Now(),
	})
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, n.canal, b).Err()
}
