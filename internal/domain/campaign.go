package domain

import (
	"strings"
	"time"
)

type CampaignType string

const (
	CampaignTypeEmail  CampaignType = "email"
	CampaignTypeSMS    CampaignType = "sms"
	CampaignTypePush   CampaignType = "push"
	CampaignTypeSocial CampaignType = "social"
)

var CampaignTypes = []CampaignType{CampaignTypeEmail, CampaignTypeSMS, CampaignTypePush, CampaignTypeSocial}

func (t CampaignType) Valid() bool {
	for _, v := range CampaignTypes {
		if t == v {
			return true
		}
	}
	return false
}

// CampaignStatus lifecycle: draft -> scheduled -> sent, cancel returns to draft.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSent      CampaignStatus = "sent"
)

var CampaignStatuses = []CampaignStatus{CampaignStatusDraft, CampaignStatusScheduled, CampaignStatusSent}

func (s CampaignStatus) Valid() bool {
	for _, v := range CampaignStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Campaign an outbound marketing campaign (campaigns table).
type Campaign struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          CampaignType   `json:"type"`
	Subject       string         `json:"subject"`
	Content       string         `json:"content"`
	Status        CampaignStatus `json:"status"`
	ScheduledDate *time.Time     `json:"scheduledDate"`
	SentAt        *time.Time     `json:"sentAt"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (c *Campaign) ApplyDefaults() {
	if c.Type == "" {
		c.Type = CampaignTypeEmail
	}
	if c.Status == "" {
		c.Status = CampaignStatusDraft
	}
}

func (c *Campaign) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return requiredError("Campaign", "name")
	}
	if !c.Type.Valid() {
		return enumError("Campaign", "type", string(c.Type))
	}
	if !c.Status.Valid() {
		return enumError("Campaign", "status", string(c.Status))
	}
	return nil
}

// CampaignPatch general update. Status is writable here too: the general
// update path is independent of the send/schedule/cancel actions.
type CampaignPatch struct {
	Name          *string
	Type          *CampaignType
	Subject       *string
	Content       *string
	Status        *CampaignStatus
	ScheduledDate **time.Time
}

func (p CampaignPatch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.Subject == nil && p.Content == nil &&
		p.Status == nil && p.ScheduledDate == nil
}

func (p CampaignPatch) Apply(c *Campaign) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Subject != nil {
		c.Subject = *p.Subject
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.ScheduledDate != nil {
		c.ScheduledDate = *p.ScheduledDate
	}
}

// CampaignTransition is one of the action endpoints (send/schedule/cancel).
type CampaignTransition struct {
	Status CampaignStatus
	// SetScheduledDate replaces scheduledDate with ScheduledDate (nil clears it).
	SetScheduledDate bool
	ScheduledDate    *time.Time
	// SentAt is written when non-nil.
	SentAt *time.Time
}

// Apply writes the transition onto c.
func (t CampaignTransition) Apply(c *Campaign) {
	c.Status = t.Status
	if t.SetScheduledDate {
		c.ScheduledDate = t.ScheduledDate
	}
	if t.SentAt != nil {
		sent := *t.SentAt
		c.SentAt = &sent
	}
}

type CampaignFilter struct {
	Status string
	Type   string
}
