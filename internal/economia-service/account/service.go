package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/econplay/economia-platform/internal/economia-service/models"
	"github.com/econplay/economia-platform/internal/economia-service/repo"
	"github.com/econplay/economia-platform/internal/economia-service/sorteio"
	"github.com/econplay/economia-platform/pkg/money"
)

const (
	dailyCooldown  = 24 * time.Hour
	dailyBaseMin   = 100 // reais
	dailyBaseMax   = 500
	dailyXP        = 25
	bonusPorStreak = 0.10
)

// ErrDailyEmCooldown indica resgate antes das 24h; Restante informa quanto falta.
var ErrDailyEmCooldown = errors.New("recompensa diária em cooldown")

// CooldownError embrulha ErrDailyEmCooldown com o tempo restante.
type CooldownError struct {
	Restante time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("recompensa diária em cooldown, faltam %s", e.Restante.Round(time.Second))
}

func (e *CooldownError) Unwrap() error { return ErrDailyEmCooldown }

// Service cuida de contas, recompensa diária, extrato e ranking.
type Service struct {
	store   repo.Store
	sorteio sorteio.Sorteio
	logger  *zap.Logger
	agora   func() time.Time
}

func NewService(store repo.Store, s sorteio.Sorteio, logger *zap.Logger) *Service {
	return &Service{store: store, sorteio: s, logger: logger, agora: time.Now}
}

// GetOrCreate materializa a conta no primeiro contato, com saldo inicial.
func (s *Service) GetOrCreate(ctx context.Context, userID, username string) (*models.Usuario, error) {
	return s.store.GetOrCreate(ctx, userID, username)
}

func (s *Service) Get(ctx context.Context, userID string) (*models.Usuario, error) {
	return s.store.Get(ctx, userID)
}

// ResultadoDaily descreve um resgate efetivado.
type ResultadoDaily struct {
	Base      money.Centavos
	Bonus     money.Centavos
	Total     money.Centavos
	Streak    int
	NovoSaldo money.Centavos
}

// Daily resgata a recompensa diária: base aleatória de 100 a 500, bônus de
// 10% da base por dia consecutivo, +25 XP. Cooldown de 24 horas.
// Streak avança quando passou exatamente um dia completo desde o último
// resgate; dois ou mais reiniciam em 1.
func (s *Service) Daily(ctx context.Context, userID, username string) (*ResultadoDaily, error) {
	u, err := s.store.GetOrCreate(ctx, userID, username)
	if err != nil {
		return nil, err
	}

	agora := s.agora()
	streak := 1
	if u.UltimaRecompensaDaily != nil {
		decorrido := agora.Sub(*u.UltimaRecompensaDaily)
		if decorrido < dailyCooldown {
			return nil, &CooldownError{Restante: dailyCooldown - decorrido}
		}
		if decorrido/(24*time.Hour) == 1 {
			streak = u.StreakDaily + 1
		}
	}

	base := money.FromFloat(float64(sorteio.Entre(s.sorteio, dailyBaseMin, dailyBaseMax)))
	bonus := money.Percent(base, float64(streak)*bonusPorStreak*100)
	total := base + bonus

	desc := fmt.Sprintf("Recompensa diária (streak %d)", streak)
	depois, err := s.store.ApplyDelta(ctx, userID, total, models.CategoriaDaily, desc)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetDaily(ctx, userID, agora, streak); err != nil {
		return nil, err
	}
	if err := s.store.AddExperiencia(ctx, userID, dailyXP); err != nil {
		s.logger.Warn("falha ao creditar XP do daily", zap.String("user_id", userID), zap.Error(err))
	}

	return &ResultadoDaily{
		Base:      base,
		Bonus:     bonus,
		Total:     total,
		Streak:    streak,
		NovoSaldo: depois.Saldo,
	}, nil
}

func (s *Service) Extrato(ctx context.Context, userID string, filtro models.FiltroExtrato) ([]*models.Transacao, error) {
	return s.store.Extrato(ctx, userID, filtro)
}

func (s *Service) Ranking(ctx context.Context, limite int) ([]*models.Usuario, error) {
	if limite <= 0 || limite > 50 {
		limite = 10
	}
	return s.store.TopRicos(ctx, limite)
}

// BloquearPix impede o usuário de enviar transferências. Decisão
// administrativa; a análise antifraude só sugere, nunca bloqueia sozinha.
func (s *Service) BloquearPix(ctx context.Context, userID, motivo string) error {
	if motivo == "" {
		motivo = "Bloqueio administrativo"
	}
	if err := s.store.SetBloqueado(ctx, userID, motivo); err != nil {
		return err
	}
	s.logger.Info("pix bloqueado", zap.String("user_id", userID), zap.String("motivo", motivo))
	return nil
}

func (s *Service) DesbloquearPix(ctx context.Context, userID string) error {
	if err := s.store.ClearBloqueado(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("pix desbloqueado", zap.String("user_id", userID))
	return nil
}

// AjusteAdmin aplica um crédito ou débito administrativo com rastro no extrato.
func (s *Service) AjusteAdmin(ctx context.Context, userID string, delta money.Centavos, motivo string) (*models.Usuario, error) {
	if motivo == "" {
		motivo = "Ajuste administrativo"
	}
	u, err := s.store.ApplyDelta(ctx, userID, delta, models.CategoriaAdmin, motivo)
	if err != nil {
		return nil, err
	}
	s.logger.Info("ajuste administrativo aplicado",
		zap.String("user_id", userID),
		zap.Int64("delta_cents", int64(delta)),
	)
	return u, nil
}
