package campaign

import (
	"context"
	"strings"
	"time"

	"Doare/internal/domain/user"
	appErrors "Doare/internal/errors"
	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const maxTransitionRetries = 3

type Service struct {
	Repository  Repository
	UserService *user.Service
}

func NewService(repo Repository, userSvc *user.Service) *Service {
	return &Service{Repository: repo, UserService: userSvc}
}

type CreateRequest struct {
	Title        string
	Description  string
	TargetAmount decimal.Decimal
	StartDate    time.Time
	EndDate      time.Time
	CreatedBy    ulid.ULID
}

// CreateCampaign cria a campanha em PENDING quando submetida por doador;
// campanhas criadas por administrador entram direto em ACTIVE, sem aprovação.
func (s *Service) CreateCampaign(ctx context.Context, req *CreateRequest, asAdmin bool) (*Campaign, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	creator, err := s.UserService.GetByID(ctx, req.CreatedBy)
	if err != nil {
		return nil, appErrors.ErrUserNotFound.WithError(err)
	}

	status := StatusPending
	if asAdmin {
		if creator.Role != user.RoleAdmin {
			return nil, appErrors.ErrForbidden
		}
		status = StatusActive
	}

	now := time.Now()
	entity := &Campaign{
		Id:            pkg.GenerateULIDObject(),
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		TargetAmount:  req.TargetAmount,
		CurrentAmount: decimal.Zero,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        status,
		CreatedBy:     creator.Id,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// ChangeStatus aplica a transição com compare-and-swap na versão armazenada.
// A tabela de transições decide sozinha: pedir o próprio estado atual também
// é rejeitado. Em conflito, relê o estado e reavalia; se o novo estado de
// origem não permitir o destino, a requisição falha com INVALID_TRANSITION.
func (s *Service) ChangeStatus(ctx context.Context, campaignID ulid.ULID, target Status) (*Campaign, error) {
	if !target.IsValid() {
		return nil, appErrors.NewValidationError("status", "status inválido")
	}

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		entity, err := s.Repository.GetById(ctx, campaignID)
		if err != nil {
			return nil, err
		}

		if !CanTransition(entity.Status, target) {
			return nil, appErrors.NewInvalidTransitionError("campaign", string(entity.Status), string(target))
		}

		now := time.Now()
		applied, err := s.Repository.UpdateStatusCAS(ctx, campaignID, entity.Version, map[string]interface{}{
			"status":     target,
			"version":    entity.Version + 1,
			"updated_at": now,
		})
		if err != nil {
			return nil, err
		}
		if applied {
			entity.Status = target
			entity.Version++
			entity.UpdatedAt = now
			return entity, nil
		}
	}

	return nil, appErrors.NewConcurrentModificationError("campaign", campaignID.String())
}

// SetRoot designa a campanha institucional que recebe doações não
// direcionadas. O repositório garante atomicidade entre as duas linhas.
func (s *Service) SetRoot(ctx context.Context, campaignID ulid.ULID) error {
	if _, err := s.Repository.GetById(ctx, campaignID); err != nil {
		return err
	}

	return s.Repository.SetRoot(ctx, campaignID)
}

func (s *Service) GetRoot(ctx context.Context) (*Campaign, error) {
	root, err := s.Repository.FindRoot(ctx)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, appErrors.ErrRootNotFound
	}
	return root, nil
}

func (s *Service) GetCampaignByID(ctx context.Context, campaignID ulid.ULID) (*Campaign, error) {
	return s.Repository.GetById(ctx, campaignID)
}

func (s *Service) ListCampaigns(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*Campaign, int64, error) {
	return s.Repository.List(ctx, filters, pagination)
}

type UpdateRequest struct {
	Id           ulid.ULID
	Title        string
	Description  string
	TargetAmount decimal.Decimal
	EndDate      time.Time
}

func (s *Service) UpdateCampaign(ctx context.Context, req *UpdateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return appErrors.NewValidationError("title", "é obrigatório")
	}
	if req.TargetAmount.IsNegative() {
		return appErrors.NewValidationError("target_amount", "não pode ser negativo")
	}

	current, err := s.Repository.GetById(ctx, req.Id)
	if err != nil {
		return err
	}

	if current.Status.IsTerminal() {
		return appErrors.NewValidationError("status", "campanha encerrada não pode ser editada")
	}
	if !req.EndDate.After(current.StartDate) {
		return appErrors.NewValidationError("end_date", "deve ser posterior à data inicial")
	}

	current.Title = strings.TrimSpace(req.Title)
	current.Description = strings.TrimSpace(req.Description)
	current.TargetAmount = req.TargetAmount
	current.EndDate = req.EndDate
	current.UpdatedAt = time.Now()

	return s.Repository.Update(ctx, current)
}

// DeleteCampaign remove a campanha apenas quando não há doações vinculadas;
// histórico de doações nunca é apagado em cascata.
func (s *Service) DeleteCampaign(ctx context.Context, campaignID ulid.ULID) error {
	count, err := s.Repository.CountDonations(ctx, campaignID)
	if err != nil {
		return err
	}
	if count > 0 {
		return appErrors.ErrConflict.WithDetails(map[string]interface{}{
			"reason":    "campanha possui doações vinculadas",
			"donations": count,
		})
	}

	return s.Repository.Delete(ctx, campaignID)
}

func validateCreate(req *CreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return appErrors.NewValidationError("title", "é obrigatório")
	}
	if req.TargetAmount.IsNegative() {
		return appErrors.NewValidationError("target_amount", "não pode ser negativo")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return appErrors.NewValidationError("start_date", "datas da campanha são obrigatórias")
	}
	if !req.EndDate.After(req.StartDate) {
		return appErrors.NewValidationError("end_date", "deve ser posterior à data inicial")
	}
	return nil
}
