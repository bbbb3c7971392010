package donation

import (
	"context"
	"time"

	"Doare/internal/domain/campaign"
	"Doare/internal/domain/payment"
	"Doare/internal/domain/user"
	appErrors "Doare/internal/errors"
	"Doare/internal/logger"
	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const chargeBatchSize = 100

type Service struct {
	Repository      Repository
	CampaignService *campaign.Service
	PaymentService  *payment.Service
	UserService     *user.Service
}

func NewService(
	repo Repository,
	campaignSvc *campaign.Service,
	paymentSvc *payment.Service,
	userSvc *user.Service,
) *Service {
	return &Service{
		Repository:      repo,
		CampaignService: campaignSvc,
		PaymentService:  paymentSvc,
		UserService:     userSvc,
	}
}

type CreateRequest struct {
	// CampaignId nulo direciona a doação para a campanha institucional.
	CampaignId  *ulid.ULID
	DonorId     ulid.ULID
	Amount      decimal.Decimal
	Periodicity *Periodicity
	Method      payment.Method
}

type CreateResult struct {
	Donation *Donation        `json:"donation"`
	Payment  *payment.Payment `json:"payment"`
}

// CreateDonation confirma a etapa de doação do funil: cria a doação e seu
// pagamento PENDING. O arrecadado da campanha só muda quando o gateway
// confirma o pagamento.
func (s *Service) CreateDonation(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	if !req.Amount.IsPositive() {
		return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
	}
	if req.Periodicity != nil && !req.Periodicity.IsValid() {
		return nil, appErrors.NewValidationError("periodicity", "periodicidade inválida")
	}
	if req.Periodicity != nil && *req.Periodicity == PeriodicityCanceled {
		return nil, appErrors.NewValidationError("periodicity", "doação não pode ser criada já cancelada")
	}

	if _, err := s.UserService.GetByID(ctx, req.DonorId); err != nil {
		return nil, appErrors.ErrUserNotFound.WithError(err)
	}

	target, err := s.resolveCampaign(ctx, req.CampaignId)
	if err != nil {
		return nil, err
	}

	if target.Status != campaign.StatusActive {
		return nil, appErrors.NewValidationError("campaign_id", "campanha não está recebendo doações")
	}

	now := time.Now()
	entity := &Donation{
		Id:          pkg.GenerateULIDObject(),
		CampaignId:  target.Id,
		DonorId:     req.DonorId,
		Amount:      req.Amount,
		Periodicity: req.Periodicity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.Periodicity != nil && req.Periodicity.IsRecurring() {
		next := now.AddDate(0, req.Periodicity.IntervalMonths(), 0)
		entity.NextChargeAt = &next
	}

	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	pay, err := s.PaymentService.CreateForDonation(ctx, entity.Id, target.Id, req.Method, req.Amount)
	if err != nil {
		return nil, err
	}

	return &CreateResult{Donation: entity, Payment: pay}, nil
}

// SetPeriodicity alterna livremente entre cadências; CANCELED apenas
// desativa o agendamento futuro, sem apagar cobranças já feitas.
func (s *Service) SetPeriodicity(ctx context.Context, donationID, donorID ulid.ULID, p Periodicity) error {
	if !p.IsValid() {
		return appErrors.NewValidationError("periodicity", "periodicidade inválida")
	}

	entity, err := s.Repository.GetByIdAndDonor(ctx, donationID, donorID)
	if err != nil {
		return err
	}

	var next *time.Time
	if p.IsRecurring() {
		n := time.Now().AddDate(0, p.IntervalMonths(), 0)
		next = &n
	}

	return s.Repository.UpdateSchedule(ctx, entity.Id, &p, next)
}

func (s *Service) CancelRecurring(ctx context.Context, donationID, donorID ulid.ULID) error {
	return s.SetPeriodicity(ctx, donationID, donorID, PeriodicityCanceled)
}

func (s *Service) GetDonationByID(ctx context.Context, donationID ulid.ULID) (*Donation, error) {
	return s.Repository.GetById(ctx, donationID)
}

// GetOwnedDonation busca a doação apenas dentro do escopo do doador; doações
// de terceiros respondem como inexistentes.
func (s *Service) GetOwnedDonation(ctx context.Context, donationID, donorID ulid.ULID) (*Donation, error) {
	return s.Repository.GetByIdAndDonor(ctx, donationID, donorID)
}

func (s *Service) ListByDonor(ctx context.Context, donorID ulid.ULID, pagination *pkg.PaginationParams) ([]*Donation, int64, error) {
	return s.Repository.ListByDonor(ctx, donorID, pagination)
}

func (s *Service) ListByCampaign(ctx context.Context, campaignID ulid.ULID, pagination *pkg.PaginationParams) ([]*Donation, int64, error) {
	if _, err := s.CampaignService.GetCampaignByID(ctx, campaignID); err != nil {
		return nil, 0, err
	}
	return s.Repository.ListByCampaign(ctx, campaignID, pagination)
}

// ProcessDueCharges gera a próxima cobrança das assinaturas vencidas: cada
// cobrança é uma nova doação avulsa ligada à assinatura por OriginId, com seu
// próprio pagamento PENDING. Campanhas que deixaram de estar ativas têm a
// cobrança pulada até a próxima varredura.
func (s *Service) ProcessDueCharges(ctx context.Context) (int, error) {
	now := time.Now()

	due, err := s.Repository.ListRecurringDue(ctx, now, chargeBatchSize)
	if err != nil {
		return 0, err
	}

	charged := 0
	for _, sub := range due {
		if sub.Periodicity == nil || !sub.Periodicity.IsRecurring() {
			continue
		}

		target, err := s.CampaignService.GetCampaignByID(ctx, sub.CampaignId)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("donation_id", sub.Id.String()).
				Msg("Assinatura aponta para campanha inexistente")
			continue
		}
		if target.Status != campaign.StatusActive {
			continue
		}

		originID := sub.Id
		charge := &Donation{
			Id:         pkg.GenerateULIDObject(),
			CampaignId: sub.CampaignId,
			DonorId:    sub.DonorId,
			Amount:     sub.Amount,
			OriginId:   &originID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := s.Repository.Create(ctx, charge); err != nil {
			logger.Error().
				Err(err).
				Str("donation_id", sub.Id.String()).
				Msg("Falha ao criar cobrança recorrente")
			continue
		}

		if _, err := s.PaymentService.CreateForDonation(ctx, charge.Id, charge.CampaignId, payment.MethodCreditCard, charge.Amount); err != nil {
			logger.Error().
				Err(err).
				Str("donation_id", charge.Id.String()).
				Msg("Falha ao criar pagamento da cobrança recorrente")
			continue
		}

		next := now.AddDate(0, sub.Periodicity.IntervalMonths(), 0)
		if err := s.Repository.UpdateSchedule(ctx, sub.Id, nil, &next); err != nil {
			logger.Error().
				Err(err).
				Str("donation_id", sub.Id.String()).
				Msg("Falha ao reagendar assinatura")
			continue
		}

		charged++
	}

	return charged, nil
}

func (s *Service) resolveCampaign(ctx context.Context, campaignID *ulid.ULID) (*campaign.Campaign, error) {
	if campaignID == nil || pkg.IsEmptyULID(*campaignID) {
		return s.CampaignService.GetRoot(ctx)
	}
	return s.CampaignService.GetCampaignByID(ctx, *campaignID)
}
