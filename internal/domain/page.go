package domain

import (
	"encoding/json"
	"time"
)

// Marketing page keys served by the content routes.
const (
	PageHome     = "home"
	PageAbout    = "about"
	PageFeatures = "features"
	PagePricing  = "pricing"
	PageSettings = "settings"
)

var PageKeys = []string{PageHome, PageAbout, PageFeatures, PagePricing, PageSettings}

// MarketingPage opaque content addressed by a unique key. Content shape is not validated.
type MarketingPage struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// EmptyContent is what a read of a missing page returns.
var EmptyContent = json.RawMessage(`{}`)
