package events

import "leadflow/internal/domain"

// Event is the payload pushed over the owner's websocket.
type Event struct {
	Type   string       `json:"type"`
	Lead   *domain.Lead `json:"lead,omitempty"`
	LeadID int64        `json:"leadId,omitempty"`
}

const (
	TypeLeadCreated = "lead.created"
	TypeLeadUpdated = "lead.updated"
	TypeLeadDeleted = "lead.deleted"
)

// Notifier adapts the hub to the lead service's notification boundary.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) LeadCreated(ownerID int64, l *domain.Lead) {
	n.hub.Send(ownerID, Event{Type: TypeLeadCreated, Lead: l, LeadID: l.ID})
}

func (n *Notifier) LeadUpdated(ownerID int64, l *domain.Lead) {
	n.hub.Send(ownerID, Event{Type: TypeLeadUpdated, Lead: l, LeadID: l.ID})
}

func (n *Notifier) LeadDeleted(ownerID int64, id int64) {
	n.hub.Send(ownerID, Event{Type: TypeLeadDeleted, LeadID: id})
}
