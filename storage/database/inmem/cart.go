package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/courseportal/core/registration"
	"github.com/trezcool/courseportal/core/schedule"
)

type cartRepository struct {
	db *cartTable
}

func NewCartRepository(db *DB) registration.Repository {
	return &cartRepository{db: db.cart}
}

func (repo *cartRepository) GetCart(_ context.Context, studentID string) (registration.Cart, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cart, ok := repo.db.table[studentID]; ok {
		return copyCart(*cart), nil
	}
	return registration.Cart{}, registration.ErrNotFound
}

func (repo *cartRepository) SaveCart(_ context.Context, cart registration.Cart) (registration.Cart, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored := copyCart(cart)
	repo.db.table[cart.StudentID] = &stored
	return cart, nil
}

func (repo *cartRepository) QueryCarts(_ context.Context, status registration.Status) ([]registration.Cart, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	carts := make([]registration.Cart, 0)
	for _, cart := range repo.db.table {
		if status == "" || cart.Status == status {
			carts = append(carts, copyCart(*cart))
		}
	}
	// never submitted first, like NULLS FIRST
	sort.Slice(carts, func(i, j int) bool {
		si, sj := submittedAt(carts[i]), submittedAt(carts[j])
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return carts[i].StudentID < carts[j].StudentID
	})
	return carts, nil
}

func submittedAt(cart registration.Cart) time.Time {
	if cart.SubmittedAt == nil {
		return time.Time{}
	}
	return *cart.SubmittedAt
}

// copyCart keeps callers from sharing the stored Selection's backing array.
func copyCart(cart registration.Cart) registration.Cart {
	secs := make(schedule.Selection, len(cart.Sections))
	copy(secs, cart.Sections)
	cart.Sections = secs
	return cart
}
