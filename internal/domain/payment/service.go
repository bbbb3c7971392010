package payment

import (
	"context"
	"time"

	appErrors "Doare/internal/errors"
	"Doare/internal/logger"
	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const maxTransitionRetries = 3

// expireBatchSize limita quantos pagamentos vencidos a varredura processa
// por chamada.
const expireBatchSize = 200

type Service struct {
	Repository Repository
	// PendingWindow é o prazo que o funil concede para um pagamento PENDING
	// ser confirmado antes do cancelamento automático.
	PendingWindow time.Duration
}

func NewService(repo Repository, pendingWindow time.Duration) *Service {
	if pendingWindow <= 0 {
		pendingWindow = 10 * time.Minute
	}
	return &Service{Repository: repo, PendingWindow: pendingWindow}
}

func (s *Service) CreateForDonation(ctx context.Context, donationID, campaignID ulid.ULID, method Method, amount decimal.Decimal) (*Payment, error) {
	if !method.IsValid() {
		return nil, appErrors.NewValidationError("method", "método de pagamento inválido")
	}
	if !amount.IsPositive() {
		return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	now := time.Now()
	entity := &Payment{
		Id:         pkg.GenerateULIDObject(),
		DonationId: donationID,
		CampaignId: campaignID,
		Method:     method,
		Status:     StatusPending,
		Amount:     amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Confirm registra a liquidação pelo gateway: soma o valor ao arrecadado da
// campanha e marca PaidAt. Chamadas repetidas são no-op.
func (s *Service) Confirm(ctx context.Context, paymentID ulid.ULID) (*Payment, error) {
	return s.applyTransition(ctx, paymentID, StatusConfirmed)
}

func (s *Service) Fail(ctx context.Context, paymentID ulid.ULID) (*Payment, error) {
	return s.applyTransition(ctx, paymentID, StatusFailed)
}

// Refund estorna um pagamento confirmado, subtraindo o valor de volta do
// arrecadado da campanha.
func (s *Service) Refund(ctx context.Context, paymentID ulid.ULID) (*Payment, error) {
	return s.applyTransition(ctx, paymentID, StatusRefunded)
}

func (s *Service) Cancel(ctx context.Context, paymentID ulid.ULID) (*Payment, error) {
	return s.applyTransition(ctx, paymentID, StatusCanceled)
}

func (s *Service) GetPaymentByID(ctx context.Context, paymentID ulid.ULID) (*Payment, error) {
	return s.Repository.GetById(ctx, paymentID)
}

func (s *Service) GetByDonationID(ctx context.Context, donationID ulid.ULID) (*Payment, error) {
	return s.Repository.GetByDonationId(ctx, donationID)
}

// ExpirePending cancela pagamentos PENDING mais antigos que a janela
// configurada. O front exibe a contagem regressiva, mas a expiração é
// garantida aqui no servidor. Retorna quantos foram cancelados.
func (s *Service) ExpirePending(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.PendingWindow)

	pending, err := s.Repository.ListPendingOlderThan(ctx, cutoff, expireBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, p := range pending {
		if _, err := s.applyTransition(ctx, p.Id, StatusCanceled); err != nil {
			// outra requisição pode ter confirmado o pagamento na janela;
			// a varredura segue para os demais
			logger.Warn().
				Err(err).
				Str("payment_id", p.Id.String()).
				Msg("Pagamento vencido não pôde ser cancelado")
			continue
		}
		expired++
	}

	return expired, nil
}

// applyTransition avalia a tabela de transições contra o estado recém-lido e
// aplica via compare-and-swap. Transição já satisfeita (status atual == alvo)
// é sucesso sem efeito, para tolerar entrega at-least-once do gateway.
func (s *Service) applyTransition(ctx context.Context, paymentID ulid.ULID, target Status) (*Payment, error) {
	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		entity, err := s.Repository.GetById(ctx, paymentID)
		if err != nil {
			return nil, err
		}

		if entity.Status == target {
			return entity, nil
		}

		if !CanTransition(entity.Status, target) {
			return nil, appErrors.NewInvalidTransitionError("payment", string(entity.Status), string(target))
		}

		req := &TransitionApply{
			PaymentID:       entity.Id,
			ExpectedVersion: entity.Version,
			Target:          target,
			CampaignID:      entity.CampaignId,
			CampaignDelta:   decimal.Zero,
		}

		switch target {
		case StatusConfirmed:
			now := time.Now()
			req.PaidAt = &now
			req.CampaignDelta = entity.Amount
		case StatusRefunded:
			req.CampaignDelta = entity.Amount.Neg()
		}

		applied, err := s.Repository.Apply(ctx, req)
		if err != nil {
			return nil, err
		}
		if applied {
			entity.Status = target
			entity.Version++
			if req.PaidAt != nil {
				entity.PaidAt = req.PaidAt
			}
			return entity, nil
		}
	}

	return nil, appErrors.NewConcurrentModificationError("payment", paymentID.String())
}
