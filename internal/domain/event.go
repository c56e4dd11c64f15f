package domain

import "time"

// Event is a scheduled match between two teams at a venue.
type Event struct {
	ID         string
	HomeTeamID string
	AwayTeamID string
	VenueID    string
	// Date and Time are kept as supplied (YYYY-MM-DD, HH:MM); StartsAt is derived from both.
	Date     string
	Time     string
	StartsAt time.Time

	MainRefereeID    string
	FirstLinesmanID  string
	SecondLinesmanID string

	CreatedAt time.Time
}

// Teams returns the non-empty participant team ids.
func (e Event) Teams() []string {
	return nonEmpty(e.HomeTeamID, e.AwayTeamID)
}

// Officials returns the non-empty official ids (primary first).
func (e Event) Officials() []string {
	return nonEmpty(e.MainRefereeID, e.FirstLinesmanID, e.SecondLinesmanID)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ResourceFilter selects events sharing any of the listed resources.
type ResourceFilter struct {
	VenueID     string
	TeamIDs     []string
	OfficialIDs []string
	// StartsFrom and StartsTo bound starts_at inclusively. A zero value leaves that side open.
	StartsFrom time.Time
	StartsTo   time.Time
}

// StartsWithin reports whether t falls inside the filter's start bounds.
func (f ResourceFilter) StartsWithin(t time.Time) bool {
	if !f.StartsFrom.IsZero() && t.Before(f.StartsFrom) {
		return false
	}
	if !f.StartsTo.IsZero() && t.After(f.StartsTo) {
		return false
	}
	return true
}

// ResourceFilter returns the filter matching every resource this event commits.
func (e Event) ResourceFilter() ResourceFilter {
	return ResourceFilter{
		VenueID:     e.VenueID,
		TeamIDs:     e.Teams(),
		OfficialIDs: e.Officials(),
	}
}

// SharesResource reports whether two events share the venue, a team, or an official.
func (e Event) SharesResource(other Event) bool {
	if e.VenueID != "" && e.VenueID == other.VenueID {
		return true
	}
	if intersects(e.Teams(), other.Teams()) {
		return true
	}
	return intersects(e.Officials(), other.Officials())
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
