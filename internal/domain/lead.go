package domain

import (
	"strings"
	"time"
)

// LeadSource where a lead came from.
type LeadSource string

const (
	LeadSourceWebsite       LeadSource = "website"
	LeadSourceReferral      LeadSource = "referral"
	LeadSourceSocialMedia   LeadSource = "social_media"
	LeadSourceAdvertisement LeadSource = "advertisement"
	LeadSourceOther         LeadSource = "other"
)

// LeadSources lists every valid source in declaration order.
var LeadSources = []LeadSource{
	LeadSourceWebsite, LeadSourceReferral, LeadSourceSocialMedia, LeadSourceAdvertisement, LeadSourceOther,
}

func (s LeadSource) Valid() bool {
	for _, v := range LeadSources {
		if s == v {
			return true
		}
	}
	return false
}

// LeadStatus transitions are unconstrained: any status may be set from any other.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

var LeadStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost,
}

func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Lead a marketing-site enquiry (leads table).
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Source    LeadSource `json:"source"`
	Interest  string     `json:"interest"`
	Notes     string     `json:"notes"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ApplyDefaults fills store defaults for a new lead.
func (l *Lead) ApplyDefaults() {
	if l.Source == "" {
		l.Source = LeadSourceWebsite
	}
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
}

// Validate enforces the collection schema.
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Email) == "" {
		return requiredError("Lead", "email")
	}
	if !l.Source.Valid() {
		return enumError("Lead", "source", string(l.Source))
	}
	if !l.Status.Valid() {
		return enumError("Lead", "status", string(l.Status))
	}
	return nil
}

// LeadPatch is a free-form partial update. Nil fields are left unchanged.
type LeadPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Source   *LeadSource
	Interest *string
	Notes    *string
	Status   *LeadStatus
}

// Empty reports whether no field is set.
func (p LeadPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Source == nil &&
		p.Interest == nil && p.Notes == nil && p.Status == nil
}

// Apply writes the set fields onto l.
func (p LeadPatch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Interest != nil {
		l.Interest = *p.Interest
	}
	if p.Notes != nil {
		l.Notes = *p.Notes
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
}

// LeadFilter list filters; empty fields do not filter.
type LeadFilter struct {
	Status string
	// Search is a case-insensitive literal substring matched against name OR email.
	Search string
}

// LeadNote admin annotation on a lead. Immutable once created.
type LeadNote struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	Note      string    `json:"note"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n *LeadNote) Validate() error {
	if strings.TrimSpace(n.LeadID) == "" {
		return requiredError("LeadNote", "leadId")
	}
	if n.Note == "" {
		return requiredError("LeadNote", "note")
	}
	return nil
}
