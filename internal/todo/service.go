package todo

import (
	"context"
	"strings"

	"taskwire.org/internal/audit"
	"taskwire.org/internal/stream"
)

// Service orchestrates authorization, persistence, audit logging and change
// notification for the CRUD operations. Every operation takes the caller's
// identity explicitly; there is no ambient request state.
type Service struct {
	store Store
	audit *audit.Recorder
	hub   *stream.Hub
}

// NewService wires the service. hub may be nil, in which case change events
// are not emitted.
func NewService(store Store, recorder *audit.Recorder, hub *stream.Hub) *Service {
	return &Service{store: store, audit: recorder, hub: hub}
}

// ListQuery carries list parameters. Page is 1-based; zero means first page.
type ListQuery struct {
	Search string
	Page   int
}

// Page is one page of the caller's todos, most-recent-first.
type Page struct {
	Items   []Todo `json:"items"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Total   int    `json:"total"`
}

// List returns the caller's todos, optionally filtered by a case-insensitive
// substring match on title or description. The owner scope applies to the
// search filter as well: no search term ever widens the result beyond the
// caller's own rows.
func (s *Service) List(ctx context.Context, callerID string, q ListQuery) (Page, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	items, total, err := s.store.ListByOwner(ctx, callerID, strings.TrimSpace(q.Search), page, PerPage)
	if err != nil {
		s.audit.Error(ctx, callerID, "Failed to retrieve Todo List", err)
		return Page{}, err
	}
	s.audit.Info(ctx, callerID, "Accessed Todo List", "GET")
	if items == nil {
		items = []Todo{}
	}
	return Page{Items: items, Page: page, PerPage: PerPage, Total: total}, nil
}

// CreateInput carries boundary-validated creation fields.
type CreateInput struct {
	Title       string
	Description string
	Completed   bool
}

// Create persists a new todo owned by the caller, records the audit entry and
// emits a "created" event. Audit and emission happen after the mutation and
// never fail it.
func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Todo, error) {
	t := Todo{
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		UserID:      callerID,
	}
	if err := s.store.Create(ctx, &t); err != nil {
		s.audit.Error(ctx, callerID, "Failed to create Todo", err)
		return Todo{}, err
	}
	s.audit.Info(ctx, callerID, "Todo List Created", "POST")
	s.emit(stream.KindCreated, t)
	return t, nil
}

// Show returns the todo if the caller owns it. A missing id is ErrNotFound;
// someone else's todo is ErrUnauthorized. Both short-circuit before side
// effects.
func (s *Service) Show(ctx context.Context, callerID, id string) (Todo, error) {
	t, err := s.store.Find(ctx, id)
	if err != nil {
		return Todo{}, err
	}
	if t.UserID != callerID {
		return Todo{}, ErrUnauthorized
	}
	s.audit.Info(ctx, callerID, "Todo Retrieved Successfully", "GET")
	return t, nil
}

// UpdateInput is a partial update: nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Update applies the supplied fields to an owned todo, records the audit
// entry and emits an "updated" event. Ownership is enforced before any
// mutation.
func (s *Service) Update(ctx context.Context, callerID, id string, in UpdateInput) (Todo, error) {
	t, err := s.store.Find(ctx, id)
	if err != nil {
		return Todo{}, err
	}
	if t.UserID != callerID {
		return Todo{}, ErrUnauthorized
	}

	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}

	if err := s.store.Update(ctx, &t); err != nil {
		s.audit.Error(ctx, callerID, "Failed to update Todo", err)
		return Todo{}, err
	}
	s.audit.Info(ctx, callerID, "Todo List Updated", "PUT")
	s.emit(stream.KindUpdated, t)
	return t, nil
}

// Destroy deletes an owned todo, records the audit entry and emits a
// "deleted" event carrying the removed todo.
func (s *Service) Destroy(ctx context.Context, callerID, id string) error {
	t, err := s.store.Find(ctx, id)
	if err != nil {
		return err
	}
	if t.UserID != callerID {
		return ErrUnauthorized
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.audit.Error(ctx, callerID, "Failed to delete Todo", err)
		return err
	}
	s.audit.Info(ctx, callerID, "Todo List Deleted", "DELETE")
	s.emit(stream.KindDeleted, t)
	return nil
}

func (s *Service) emit(kind stream.Kind, t Todo) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(stream.Event{
		Kind:    kind,
		Channel: stream.ChannelForUser(t.UserID),
		Payload: t,
	})
}
