package lead

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"leadflow/internal/domain"
	"leadflow/internal/repository"
)

// Service holds the lead business logic: filter parsing and compilation,
// pagination, stats, and owner-scoped CRUD.
type Service struct {
	repo   Repository
	notifs Notifier
	log    *zap.Logger
}

func NewService(repo Repository, notifs Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		notifs: notifs,
		log:    log,
	}
}

// List returns one page of the owner's leads matching rawFilters. The total
// is counted from the same compiled query independent of the page window.
func (s *Service) List(ctx context.Context, ownerID int64, page PageRequest, rawFilters string) (*PageResult, error) {
	expr, err := ParseExpression(rawFilters)
	if err != nil {
		return nil, err
	}

	q := Compile(ownerID, expr)

	total, err := s.repo.Count(ctx, q)
	if err != nil {
		s.log.Error("count leads failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	leads, err := s.repo.Find(ctx, q, page.Limit, page.Offset())
	if err != nil {
		s.log.Error("find leads failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	return NewPageResult(leads, page, total), nil
}

// Stats aggregates over the full filtered set, not the current page: the
// same filter expression is recompiled and fetched without a window.
func (s *Service) Stats(ctx context.Context, ownerID int64, rawFilters string) (*Stats, error) {
	expr, err := ParseExpression(rawFilters)
	if err != nil {
		return nil, err
	}

	leads, err := s.repo.FindAll(ctx, Compile(ownerID, expr))
	if err != nil {
		s.log.Error("aggregate leads failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	return Aggregate(leads), nil
}

// Get returns a single lead. A foreign-owned ID is reported as not found,
// indistinguishable from an absent one.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*domain.Lead, error) {
	l, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLeadNotFound
	}
	return l, nil
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateLeadRequest) (*domain.Lead, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.repo.GetByEmail(ctx, ownerID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	status := domain.LeadNew
	if req.Status != "" {
		status = domain.LeadStatus(req.Status)
	}

	l := &domain.Lead{
		OwnerID:        ownerID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          email,
		Phone:          req.Phone,
		Company:        req.Company,
		City:           req.City,
		State:          req.State,
		Source:         domain.LeadSource(req.Source),
		Status:         status,
		Score:          req.Score,
		LeadValue:      req.LeadValue,
		IsQualified:    req.IsQualified,
		LastActivityAt: req.LastActivityAt,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		// Two concurrent creates with the same email race past the
		// pre-check; the unique index decides and we translate.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		s.log.Error("create lead failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	if s.notifs != nil {
		s.notifs.LeadCreated(ownerID, l)
	}
	return l, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id int64, req UpdateLeadRequest) (*domain.Lead, error) {
	l, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLeadNotFound
	}

	// Duplicate check is re-run only when the email actually changes.
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != l.Email {
			existing, err := s.repo.GetByEmail(ctx, ownerID, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrDuplicateEmail
			}
		}
		l.Email = email
	}

	applyUpdate(l, req)

	if err := s.repo.Update(ctx, l); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		s.log.Error("update lead failed", zap.Int64("owner_id", ownerID), zap.Int64("lead_id", id), zap.Error(err))
		return nil, err
	}

	if s.notifs != nil {
		s.notifs.LeadUpdated(ownerID, l)
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		s.log.Error("delete lead failed", zap.Int64("owner_id", ownerID), zap.Int64("lead_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrLeadNotFound
	}

	if s.notifs != nil {
		s.notifs.LeadDeleted(ownerID, id)
	}
	return nil
}

func applyUpdate(l *domain.Lead, req UpdateLeadRequest) {
	if req.FirstName != nil {
		l.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		l.LastName = *req.LastName
	}
	if req.Phone != nil {
		l.Phone = *req.Phone
	}
	if req.Company != nil {
		l.Company = *req.Company
	}
	if req.City != nil {
		l.City = *req.City
	}
	if req.State != nil {
		l.State = *req.State
	}
	if req.Source != nil {
		l.Source = domain.LeadSource(*req.Source)
	}
	if req.Status != nil {
		l.Status = domain.LeadStatus(*req.Status)
	}
	if req.Score != nil {
		l.Score = *req.Score
	}
	if req.LeadValue != nil {
		l.LeadValue = *req.LeadValue
	}
	if req.IsQualified != nil {
		l.IsQualified = *req.IsQualified
	}
	if req.LastActivityAt != nil {
		t := req.LastActivityAt.UTC()
		l.LastActivityAt = &t
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
