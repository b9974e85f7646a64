package repository

import "github.com/holdline/ticketcore/internal/store"

// Repository is the single entry point onto the store for every entity the
// core manages. It holds no state of its own beyond the store handle, the
// same "thin wrapper over the persistence seam" shape the teacher's own
// Store/QueryRepo/ReservationRepo split uses.
type Repository struct {
	store store.Store
}

func New(s store.Store) *Repository {
	return &Repository{store: s}
}
