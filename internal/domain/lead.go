package domain

import "time"

type LeadSource string

const (
	SourceWebsite     LeadSource = "website"
	SourceFacebookAds LeadSource = "facebook_ads"
	SourceGoogleAds   LeadSource = "google_ads"
	SourceReferral    LeadSource = "referral"
	SourceEvents      LeadSource = "events"
	SourceOther       LeadSource = "other"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadLost      LeadStatus = "lost"
	LeadWon       LeadStatus = "won"
)

// AllSources lists every recognized lead source.
var AllSources = []LeadSource{
	SourceWebsite,
	SourceFacebookAds,
	SourceGoogleAds,
	SourceReferral,
	SourceEvents,
	SourceOther,
}

// AllStatuses lists every recognized lead status.
var AllStatuses = []LeadStatus{
	LeadNew,
	LeadContacted,
	LeadQualified,
	LeadLost,
	LeadWon,
}

func (s LeadSource) Valid() bool {
	for _, v := range AllSources {
		if s == v {
			return true
		}
	}
	return false
}

func (s LeadStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Lead is a single prospect record. Leads are strictly owner-scoped:
// every read and write goes through the owner's ID.
type Lead struct {
	ID             int64      `json:"id"`
	OwnerID        int64      `json:"ownerId"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Company        string     `json:"company"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Source         LeadSource `json:"source"`
	Status         LeadStatus `json:"status"`
	Score          int        `json:"score"`
	LeadValue      float64    `json:"leadValue"`
	IsQualified    bool       `json:"isQualified"`
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
