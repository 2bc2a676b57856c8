package lead

import "time"

type CreateLeadRequest struct {
	FirstName      string     `json:"firstName" validate:"required"`
	LastName       string     `json:"lastName" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	Phone          string     `json:"phone" validate:"required"`
	Company        string     `json:"company" validate:"required"`
	City           string     `json:"city" validate:"required"`
	State          string     `json:"state" validate:"required"`
	Source         string     `json:"source" validate:"required,oneof=website facebook_ads google_ads referral events other"`
	Status         string     `json:"status" validate:"omitempty,oneof=new contacted qualified lost won"`
	Score          int        `json:"score" validate:"min=0,max=100"`
	LeadValue      float64    `json:"leadValue" validate:"min=0"`
	IsQualified    bool       `json:"isQualified"`
	LastActivityAt *time.Time `json:"lastActivityAt"`
}

// UpdateLeadRequest carries a partial update: every field is independently
// optional and only non-nil fields are applied.
type UpdateLeadRequest struct {
	FirstName      *string    `json:"firstName"`
	LastName       *string    `json:"lastName"`
	Email          *string    `json:"email" validate:"omitempty,email"`
	Phone          *string    `json:"phone"`
	Company        *string    `json:"company"`
	City           *string    `json:"city"`
	State          *string    `json:"state"`
	Source         *string    `json:"source" validate:"omitempty,oneof=website facebook_ads google_ads referral events other"`
	Status         *string    `json:"status" validate:"omitempty,oneof=new contacted qualified lost won"`
	Score          *int       `json:"score" validate:"omitempty,min=0,max=100"`
	LeadValue      *float64   `json:"leadValue" validate:"omitempty,min=0"`
	IsQualified    *bool      `json:"isQualified"`
	LastActivityAt *time.Time `json:"lastActivityAt"`
}
