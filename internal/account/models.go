// Package account holds the per-couple profile: resolved location,
// discovery preferences, tier, partner ages, and the optional travel
// window.
package account

import (
	"time"

	"tandem/internal/region"
	id "tandem/pkg/domain"
)

// TravelWindow announces an upcoming visit to another city. It widens
// nothing by itself; the travel scope still runs through the normal
// filter.
type TravelWindow struct {
	City      string    `json:"city"`
	State     string    `json:"state"`
	Arrival   time.Time `json:"arrival"`
	Departure time.Time `json:"departure"`
}

// ActiveAt reports whether the window covers the given instant.
func (w TravelWindow) ActiveAt(now time.Time) bool {
	return !now.Before(w.Arrival) && now.Before(w.Departure)
}

// Account is one couple's profile.
type Account struct {
	ID          id.CoupleID     `json:"id"`
	DisplayName string          `json:"display_name"`
	Location    region.Location `json:"location"`
	Scope       id.Scope        `json:"scope"`
	CrossBorder bool            `json:"cross_border"`
	Tier        id.Tier         `json:"tier"`
	Partner1Age int             `json:"partner1_age,omitempty"`
	Partner2Age int             `json:"partner2_age,omitempty"`
	Travel      *TravelWindow   `json:"travel,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
