package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"leadflow/internal/domain"
	"leadflow/internal/query"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

type leadModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	OwnerID        int64      `gorm:"column:owner_id;uniqueIndex:idx_leads_owner_email;index:idx_leads_owner_status;index:idx_leads_owner_source;index:idx_leads_owner_created"`
	FirstName      string     `gorm:"column:first_name"`
	LastName       string     `gorm:"column:last_name"`
	Email          string     `gorm:"column:email;uniqueIndex:idx_leads_owner_email"`
	Phone          string     `gorm:"column:phone"`
	Company        string     `gorm:"column:company"`
	City           string     `gorm:"column:city"`
	State          string     `gorm:"column:state"`
	Source         string     `gorm:"column:source;index:idx_leads_owner_source"`
	Status         string     `gorm:"column:status;index:idx_leads_owner_status"`
	Score          int        `gorm:"column:score"`
	LeadValue      float64    `gorm:"column:lead_value"`
	IsQualified    bool       `gorm:"column:is_qualified"`
	LastActivityAt *time.Time `gorm:"column:last_activity_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;index:idx_leads_owner_created"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (leadModel) TableName() string { return "leads" }

// leadColumns maps DSL field names to columns. Only fields listed here can
// appear in a compiled query; anything else is a programming error.
var leadColumns = map[string]string{
	"ownerId":        "owner_id",
	"email":          "email",
	"company":        "company",
	"city":           "city",
	"state":          "state",
	"source":         "source",
	"status":         "status",
	"score":          "score",
	"leadValue":      "lead_value",
	"createdAt":      "created_at",
	"lastActivityAt": "last_activity_at",
	"isQualified":    "is_qualified",
}

func toDomainLead(m leadModel) domain.Lead {
	return domain.Lead{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		Phone:          m.Phone,
		Company:        m.Company,
		City:           m.City,
		State:          m.State,
		Source:         domain.LeadSource(m.Source),
		Status:         domain.LeadStatus(m.Status),
		Score:          m.Score,
		LeadValue:      m.LeadValue,
		IsQualified:    m.IsQualified,
		LastActivityAt: m.LastActivityAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toLeadModel(l *domain.Lead) leadModel {
	return leadModel{
		ID:             l.ID,
		OwnerID:        l.OwnerID,
		FirstName:      l.FirstName,
		LastName:       l.LastName,
		Email:          l.Email,
		Phone:          l.Phone,
		Company:        l.Company,
		City:           l.City,
		State:          l.State,
		Source:         string(l.Source),
		Status:         string(l.Status),
		Score:          l.Score,
		LeadValue:      l.LeadValue,
		IsQualified:    l.IsQualified,
		LastActivityAt: l.LastActivityAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// likeEscaper neutralizes LIKE wildcards in user input so contains stays a
// plain substring match.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// apply translates a compiled query into gorm conditions. Substring matches
// go through LOWER(...) LIKE so they behave the same on postgres and sqlite.
func (r *LeadRepository) apply(ctx context.Context, q query.Query) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Model(&leadModel{})
	for _, c := range q.Conditions {
		col, ok := leadColumns[c.Field]
		if !ok {
			return nil, fmt.Errorf("lead query: unknown field %q", c.Field)
		}
		switch c.Op {
		case query.OpEq:
			tx = tx.Where(col+" = ?", c.Value)
		case query.OpContains:
			pattern := "%" + likeEscaper.Replace(strings.ToLower(fmt.Sprint(c.Value))) + "%"
			tx = tx.Where("LOWER("+col+") LIKE ? ESCAPE '\\'", pattern)
		case query.OpIn:
			tx = tx.Where(col+" IN ?", c.Value)
		case query.OpGt:
			tx = tx.Where(col+" > ?", c.Value)
		case query.OpGte:
			tx = tx.Where(col+" >= ?", c.Value)
		case query.OpLt:
			tx = tx.Where(col+" < ?", c.Value)
		case query.OpLte:
			tx = tx.Where(col+" <= ?", c.Value)
		default:
			return nil, fmt.Errorf("lead query: unsupported operator %q", c.Op)
		}
	}
	return tx, nil
}

func (r *LeadRepository) Create(ctx context.Context, l *domain.Lead) error {
	m := toLeadModel(l)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		if isDuplicateKey(tx.Error) {
			return ErrDuplicateKey
		}
		return tx.Error
	}
	*l = toDomainLead(m)
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Lead, error) {
	var m leadModel
	tx := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	l := toDomainLead(m)
	return &l, nil
}

func (r *LeadRepository) GetByEmail(ctx context.Context, ownerID int64, email string) (*domain.Lead, error) {
	var m leadModel
	tx := r.db.WithContext(ctx).
		Where("owner_id = ? AND email = ?", ownerID, email).
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	l := toDomainLead(m)
	return &l, nil
}

func (r *LeadRepository) Update(ctx context.Context, l *domain.Lead) error {
	m := toLeadModel(l)
	if tx := r.db.WithContext(ctx).Save(&m); tx.Error != nil {
		if isDuplicateKey(tx.Error) {
			return ErrDuplicateKey
		}
		return tx.Error
	}
	*l = toDomainLead(m)
	return nil
}

// Delete removes the lead and reports whether a row was actually deleted.
// An absent or foreign-owned ID deletes nothing.
func (r *LeadRepository) Delete(ctx context.Context, ownerID, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&leadModel{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *LeadRepository) Count(ctx context.Context, q query.Query) (int64, error) {
	tx, err := r.apply(ctx, q)
	if err != nil {
		return 0, err
	}
	var total int64
	if tx = tx.Count(&total); tx.Error != nil {
		return 0, tx.Error
	}
	return total, nil
}

// Find returns one page, newest created first with the ID as tie-break so
// pagination is reproducible for identical timestamps.
func (r *LeadRepository) Find(ctx context.Context, q query.Query, limit, offset int) ([]domain.Lead, error) {
	tx, err := r.apply(ctx, q)
	if err != nil {
		return nil, err
	}

	var models []leadModel
	tx = tx.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	leads := make([]domain.Lead, 0, len(models))
	for _, m := range models {
		leads = append(leads, toDomainLead(m))
	}
	return leads, nil
}

// FindAll returns every match without a page window, for stats aggregation.
func (r *LeadRepository) FindAll(ctx context.Context, q query.Query) ([]domain.Lead, error) {
	tx, err := r.apply(ctx, q)
	if err != nil {
		return nil, err
	}

	var models []leadModel
	if tx = tx.Order("created_at DESC, id DESC").Find(&models); tx.Error != nil {
		return nil, tx.Error
	}

	leads := make([]domain.Lead, 0, len(models))
	for _, m := range models {
		leads = append(leads, toDomainLead(m))
	}
	return leads, nil
}
