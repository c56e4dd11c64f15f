package app

import (
	"context"
	"time"

	"github.com/AhmedZahran02/Tazkarti-BackEnd/internal/domain"
)

const (
	// DefaultResourceWindow bounds how close two events sharing a venue, team or official may start.
	DefaultResourceWindow = 12 * time.Hour
	// DefaultUserWindow bounds how close two same-day events a single user holds tickets for may start.
	DefaultUserWindow = 150 * time.Minute
)

type EventFinder interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
	FindEventsByAny(ctx context.Context, filter domain.ResourceFilter) ([]domain.Event, error)
}

type TicketReader interface {
	ListActiveTicketsByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
}

// ConflictDetector answers scheduling questions; it never mutates events or seats.
type ConflictDetector struct {
	events         EventFinder
	tickets        TicketReader
	resourceWindow time.Duration
	userWindow     time.Duration
}

type ConflictDetectorOption func(*ConflictDetector)

// WithResourceWindow overrides the venue/team/official window.
func WithResourceWindow(d time.Duration) ConflictDetectorOption {
	return func(c *ConflictDetector) {
		if d > 0 {
			c.resourceWindow = d
		}
	}
}

// WithUserWindow overrides the per-user same-day window.
func WithUserWindow(d time.Duration) ConflictDetectorOption {
	return func(c *ConflictDetector) {
		if d > 0 {
			c.userWindow = d
		}
	}
}

func NewConflictDetector(events EventFinder, tickets TicketReader, opts ...ConflictDetectorOption) *ConflictDetector {
	d := &ConflictDetector{
		events:         events,
		tickets:        tickets,
		resourceWindow: DefaultResourceWindow,
		userWindow:     DefaultUserWindow,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HasEventConflict reports whether another event shares a resource with candidate and starts
// within the resource window (inclusive). excludeEventID skips the candidate's own prior version.
func (d *ConflictDetector) HasEventConflict(ctx context.Context, candidate domain.Event, excludeEventID string) (bool, error) {
	if candidate.StartsAt.IsZero() {
		return false, domain.ErrInvalidTimestamp
	}

	filter := candidate.ResourceFilter()
	filter.StartsFrom = candidate.StartsAt.Add(-d.resourceWindow)
	filter.StartsTo = candidate.StartsAt.Add(d.resourceWindow)
	existing, err := d.events.FindEventsByAny(ctx, filter)
	if err != nil {
		return false, err
	}
	for _, other := range existing {
		if excludeEventID != "" && other.ID == excludeEventID {
			continue
		}
		if !candidate.SharesResource(other) {
			continue
		}
		if absDuration(candidate.StartsAt.Sub(other.StartsAt)) <= d.resourceWindow {
			return true, nil
		}
	}
	return false, nil
}

// HasUserCollision reports whether userID holds an active ticket for an event on the same
// calendar date that starts strictly within the user window of candidate. A ticket for candidate
// itself counts, so a user holds at most one seat per event.
func (d *ConflictDetector) HasUserCollision(ctx context.Context, userID string, candidate domain.Event) (bool, error) {
	if candidate.StartsAt.IsZero() || candidate.Date == "" {
		return false, domain.ErrInvalidTimestamp
	}

	tickets, err := d.tickets.ListActiveTicketsByUser(ctx, userID)
	if err != nil {
		return false, err
	}

	checked := make(map[string]struct{}, len(tickets))
	for _, ticket := range tickets {
		if _, ok := checked[ticket.EventID]; ok {
			continue
		}
		checked[ticket.EventID] = struct{}{}

		held, err := d.events.GetEvent(ctx, ticket.EventID)
		if err != nil {
			return false, err
		}
		if held.Date != candidate.Date {
			continue
		}
		if absDuration(candidate.StartsAt.Sub(held.StartsAt)) < d.userWindow {
			return true, nil
		}
	}
	return false, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
