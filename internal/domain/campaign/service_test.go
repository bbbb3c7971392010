package campaign_test

import (
	"context"
	"testing"
	"time"

	"Doare/internal/domain/campaign"
	"Doare/internal/domain/user"
	appErrors "Doare/internal/errors"
	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type fakeCampaignRepository struct {
	createFn          func(ctx context.Context, c *campaign.Campaign) error
	updateFn          func(ctx context.Context, c *campaign.Campaign) error
	updateStatusCASFn func(ctx context.Context, id ulid.ULID, expectedVersion int, fields map[string]interface{}) (bool, error)
	deleteFn          func(ctx context.Context, id ulid.ULID) error
	getByIDFn         func(ctx context.Context, id ulid.ULID) (*campaign.Campaign, error)
	listFn            func(ctx context.Context, filters *campaign.Filters, pagination *pkg.PaginationParams) ([]*campaign.Campaign, int64, error)
	findRootFn        func(ctx context.Context) (*campaign.Campaign, error)
	setRootFn         func(ctx context.Context, id ulid.ULID) error
	countDonationsFn  func(ctx context.Context, campaignID ulid.ULID) (int64, error)
}

func (f *fakeCampaignRepository) Create(ctx context.Context, c *campaign.Campaign) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeCampaignRepository) Update(ctx context.Context, c *campaign.Campaign) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return nil
}

func (f *fakeCampaignRepository) UpdateStatusCAS(ctx context.Context, id ulid.ULID, expectedVersion int, fields map[string]interface{}) (bool, error) {
	if f.updateStatusCASFn != nil {
		return f.updateStatusCASFn(ctx, id, expectedVersion, fields)
	}
	return true, nil
}

func (f *fakeCampaignRepository) Delete(ctx context.Context, id ulid.ULID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeCampaignRepository) GetById(ctx context.Context, id ulid.ULID) (*campaign.Campaign, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, appErrors.ErrCampaignNotFound
}

func (f *fakeCampaignRepository) List(ctx context.Context, filters *campaign.Filters, pagination *pkg.PaginationParams) ([]*campaign.Campaign, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filters, pagination)
	}
	return nil, 0, nil
}

func (f *fakeCampaignRepository) FindRoot(ctx context.Context) (*campaign.Campaign, error) {
	if f.findRootFn != nil {
		return f.findRootFn(ctx)
	}
	return nil, nil
}

func (f *fakeCampaignRepository) SetRoot(ctx context.Context, id ulid.ULID) error {
	if f.setRootFn != nil {
		return f.setRootFn(ctx, id)
	}
	return nil
}

func (f *fakeCampaignRepository) CountDonations(ctx context.Context, campaignID ulid.ULID) (int64, error) {
	if f.countDonationsFn != nil {
		return f.countDonationsFn(ctx, campaignID)
	}
	return 0, nil
}

type fakeUserRepo struct {
	getByIDFn func(ctx context.Context, id ulid.ULID) (*user.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, _ *user.User) error { return nil }
func (f *fakeUserRepo) Update(ctx context.Context, _ *user.User) error { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, _ ulid.ULID) error  { return nil }
func (f *fakeUserRepo) GetByEmail(ctx context.Context, _ string) (*user.User, error) {
	return nil, appErrors.ErrUserNotFound
}
func (f *fakeUserRepo) GetByID(ctx context.Context, id ulid.ULID) (*user.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return &user.User{Id: id, Role: user.RoleDonor}, nil
}

func newTestService(repo *fakeCampaignRepository, userRepo user.Repository) *campaign.Service {
	if userRepo == nil {
		userRepo = &fakeUserRepo{}
	}
	return campaign.NewService(repo, user.NewService(userRepo))
}

func validCreateRequest(createdBy ulid.ULID) *campaign.CreateRequest {
	return &campaign.CreateRequest{
		Title:        "Reforma do abrigo",
		Description:  "Troca do telhado da ala norte",
		TargetAmount: decimal.NewFromInt(50000),
		StartDate:    time.Now(),
		EndDate:      time.Now().AddDate(0, 3, 0),
		CreatedBy:    createdBy,
	}
}

func TestCreateCampaignInitialStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("doador cria em PENDING", func(t *testing.T) {
		var created *campaign.Campaign
		repo := &fakeCampaignRepository{
			createFn: func(ctx context.Context, c *campaign.Campaign) error {
				created = c
				return nil
			},
		}
		svc := newTestService(repo, nil)

		donorID := ulid.Make()
		entity, err := svc.CreateCampaign(ctx, validCreateRequest(donorID), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entity.Status != campaign.StatusPending {
			t.Fatalf("expected PENDING, got %s", entity.Status)
		}
		if created == nil || created.Status != campaign.StatusPending {
			t.Fatalf("expected repository create with PENDING, got %+v", created)
		}
		if !created.CurrentAmount.IsZero() {
			t.Fatalf("expected zero current amount, got %s", created.CurrentAmount)
		}
	})

	t.Run("admin cria direto em ACTIVE", func(t *testing.T) {
		repo := &fakeCampaignRepository{}
		userRepo := &fakeUserRepo{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*user.User, error) {
				return &user.User{Id: id, Role: user.RoleAdmin}, nil
			},
		}
		svc := newTestService(repo, userRepo)

		entity, err := svc.CreateCampaign(ctx, validCreateRequest(ulid.Make()), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entity.Status != campaign.StatusActive {
			t.Fatalf("expected ACTIVE, got %s", entity.Status)
		}
	})

	t.Run("doador não ativa direto", func(t *testing.T) {
		svc := newTestService(&fakeCampaignRepository{}, nil)

		_, err := svc.CreateCampaign(ctx, validCreateRequest(ulid.Make()), true)
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != appErrors.ErrForbidden.Code {
			t.Fatalf("expected FORBIDDEN, got %v", err)
		}
	})
}

func TestChangeStatusTransitionTable(t *testing.T) {
	t.Parallel()

	all := []campaign.Status{
		campaign.StatusPending,
		campaign.StatusActive,
		campaign.StatusPaused,
		campaign.StatusFinished,
		campaign.StatusCanceled,
	}

	allowed := map[campaign.Status][]campaign.Status{
		campaign.StatusPending: {campaign.StatusActive, campaign.StatusCanceled},
		campaign.StatusActive:  {campaign.StatusPaused, campaign.StatusFinished, campaign.StatusCanceled},
		campaign.StatusPaused:  {campaign.StatusActive, campaign.StatusCanceled},
	}

	isAllowed := func(from, to campaign.Status) bool {
		for _, target := range allowed[from] {
			if target == to {
				return true
			}
		}
		return false
	}

	ctx := context.Background()
	campaignID := ulid.Make()

	// a diagonal entra no mesmo laço: o estado atual nunca é destino válido
	for _, from := range all {
		for _, to := range all {
			from, to := from, to
			t.Run(string(from)+"_para_"+string(to), func(t *testing.T) {
				repo := &fakeCampaignRepository{
					getByIDFn: func(ctx context.Context, id ulid.ULID) (*campaign.Campaign, error) {
						return &campaign.Campaign{Id: id, Status: from, Version: 4}, nil
					},
				}
				svc := newTestService(repo, nil)

				entity, err := svc.ChangeStatus(ctx, campaignID, to)
				if isAllowed(from, to) {
					if err != nil {
						t.Fatalf("expected transition %s -> %s to succeed: %v", from, to, err)
					}
					if entity.Status != to {
						t.Fatalf("expected status %s, got %s", to, entity.Status)
					}
					if entity.Version != 5 {
						t.Fatalf("expected version bump to 5, got %d", entity.Version)
					}
					return
				}

				if err == nil {
					t.Fatalf("expected transition %s -> %s to fail", from, to)
				}
				appErr, ok := appErrors.AsAppError(err)
				if !ok || appErr.Code != "INVALID_TRANSITION" {
					t.Fatalf("expected INVALID_TRANSITION, got %v", err)
				}
				if appErr.Details["from"] != string(from) || appErr.Details["to"] != string(to) {
					t.Fatalf("expected details identifying the pair, got %+v", appErr.Details)
				}
			})
		}
	}
}

func TestChangeStatusRejectsCurrentState(t *testing.T) {
	t.Parallel()

	statuses := []campaign.Status{
		campaign.StatusPending,
		campaign.StatusActive,
		campaign.StatusPaused,
		campaign.StatusFinished,
		campaign.StatusCanceled,
	}

	for _, status := range statuses {
		status := status
		t.Run(string(status), func(t *testing.T) {
			casCalled := false
			repo := &fakeCampaignRepository{
				getByIDFn: func(ctx context.Context, id ulid.ULID) (*campaign.Campaign, error) {
					return &campaign.Campaign{Id: id, Status: status, Version: 2}, nil
				},
				updateStatusCASFn: func(ctx context.Context, id ulid.ULID, expectedVersion int, fields map[string]interface{}) (bool, error) {
					casCalled = true
					return true, nil
				},
			}
			svc := newTestService(repo, nil)

			_, err := svc.ChangeStatus(context.Background(), ulid.Make(), status)
			if err == nil {
				t.Fatalf("expected %s -> %s to be rejected", status, status)
			}
			appErr, ok := appErrors.AsAppError(err)
			if !ok || appErr.Code != "INVALID_TRANSITION" {
				t.Fatalf("expected INVALID_TRANSITION, got %v", err)
			}
			if casCalled {
				t.Fatalf("expected no CAS write for same-status request")
			}
		})
	}
}

func TestChangeStatusRetriesOnConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("segunda tentativa vence", func(t *testing.T) {
		attempts := 0
		repo := &fakeCampaignRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*campaign.Campaign, error) {
				return &campaign.Campaign{Id: id, Status: campaign.StatusActive, Version: attempts}, nil
			},
			updateStatusCASFn: func(ctx context.Context, id ulid.ULID, expectedVersion int, fields map[string]interface{}) (bool, error) {
				attempts++
				return attempts > 1, nil
			},
		}
		svc := newTestService(repo, nil)

		entity, err := svc.ChangeStatus(ctx, ulid.Make(), campaign.StatusPaused)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entity.Status != campaign.StatusPaused {
			t.Fatalf("expected PAUSED, got %s", entity.Status)
		}
		if attempts != 2 {
			t.Fatalf("expected 2 CAS attempts, got %d", attempts)
		}
	})

	t.Run("conflito persistente", func(t *testing.T) {
		repo := &fakeCampaignRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*campaign.Campaign, error) {
				return &campaign.Campaign{Id: id, Status: campaign.StatusActive}, nil
			},
			updateStatusCASFn: func(ctx context.Context, id ulid.ULID, expectedVersion int, fields map[string]interface{}) (bool, error) {
				return false, nil
			},
		}
		svc := newTestService(repo, nil)

		_, err := svc.ChangeStatus(ctx, ulid.Make(), campaign.StatusPaused)
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "CONCURRENT_MODIFICATION" {
			t.Fatalf("expected CONCURRENT_MODIFICATION, got %v", err)
		}
	})

	t.Run("estado relido invalida o destino", func(t *testing.T) {
		reads := 0
		repo := &fakeCampaignRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*campaign.Campaign, error) {
				reads++
				status := campaign.StatusActive
				if reads > 1 {
					status = campaign.StatusCanceled
				}
				return &campaign.Campaign{Id: id, Status: status}, nil
			},
			updateStatusCASFn: func(ctx context.Context, id ulid.ULID, expectedVersion int, fields map[string]interface{}) (bool, error) {
				return false, nil
			},
		}
		svc := newTestService(repo, nil)

		_, err := svc.ChangeStatus(ctx, ulid.Make(), campaign.StatusFinished)
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "INVALID_TRANSITION" {
			t.Fatalf("expected INVALID_TRANSITION after reread, got %v", err)
		}
	})
}

func TestGetRoot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("sem campanha institucional", func(t *testing.T) {
		svc := newTestService(&fakeCampaignRepository{}, nil)

		_, err := svc.GetRoot(ctx)
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != appErrors.ErrRootNotFound.Code {
			t.Fatalf("expected ROOT_CAMPAIGN_NOT_FOUND, got %v", err)
		}
	})

	t.Run("retorna a detentora do flag", func(t *testing.T) {
		rootID := ulid.Make()
		repo := &fakeCampaignRepository{
			findRootFn: func(ctx context.Context) (*campaign.Campaign, error) {
				return &campaign.Campaign{Id: rootID, IsRoot: true, Status: campaign.StatusActive}, nil
			},
		}
		svc := newTestService(repo, nil)

		root, err := svc.GetRoot(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if root.Id != rootID || !root.IsRoot {
			t.Fatalf("expected root campaign, got %+v", root)
		}
	})
}

func TestSetRootRequiresExistingCampaign(t *testing.T) {
	t.Parallel()

	setRootCalled := false
	repo := &fakeCampaignRepository{
		setRootFn: func(ctx context.Context, id ulid.ULID) error {
			setRootCalled = true
			return nil
		},
	}
	svc := newTestService(repo, nil)

	err := svc.SetRoot(context.Background(), ulid.Make())
	if err == nil {
		t.Fatalf("expected error for unknown campaign")
	}
	if setRootCalled {
		t.Fatalf("expected SetRoot not to reach the repository")
	}
}

func TestDeleteCampaignKeepsDonationHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("com doações vinculadas", func(t *testing.T) {
		deleted := false
		repo := &fakeCampaignRepository{
			countDonationsFn: func(ctx context.Context, campaignID ulid.ULID) (int64, error) {
				return 7, nil
			},
			deleteFn: func(ctx context.Context, id ulid.ULID) error {
				deleted = true
				return nil
			},
		}
		svc := newTestService(repo, nil)

		err := svc.DeleteCampaign(ctx, ulid.Make())
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != appErrors.ErrConflict.Code {
			t.Fatalf("expected CONFLICT, got %v", err)
		}
		if deleted {
			t.Fatalf("expected delete to be blocked")
		}
	})

	t.Run("sem doações", func(t *testing.T) {
		deleted := false
		repo := &fakeCampaignRepository{
			deleteFn: func(ctx context.Context, id ulid.ULID) error {
				deleted = true
				return nil
			},
		}
		svc := newTestService(repo, nil)

		if err := svc.DeleteCampaign(ctx, ulid.Make()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted {
			t.Fatalf("expected delete to reach the repository")
		}
	})
}

func TestUpdateCampaignRejectsTerminal(t *testing.T) {
	t.Parallel()

	repo := &fakeCampaignRepository{
		getByIDFn: func(ctx context.Context, id ulid.ULID) (*campaign.Campaign, error) {
			return &campaign.Campaign{
				Id:        id,
				Status:    campaign.StatusFinished,
				StartDate: time.Now().AddDate(0, -2, 0),
			}, nil
		},
	}
	svc := newTestService(repo, nil)

	err := svc.UpdateCampaign(context.Background(), &campaign.UpdateRequest{
		Id:           ulid.Make(),
		Title:        "Novo título",
		TargetAmount: decimal.NewFromInt(1000),
		EndDate:      time.Now().AddDate(0, 1, 0),
	})
	if err == nil {
		t.Fatalf("expected error for finished campaign")
	}
}
