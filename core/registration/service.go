package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/courseportal/core"
	"github.com/trezcool/courseportal/core/schedule"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound      = errors.New("registration not found")
	ErrEmptyCart     = errors.New("add at least one course first")
	ErrCartLocked    = errors.New("registration already submitted")
	ErrNotPending    = errors.New("registration is not pending review")
	ErrNotSelected   = errors.New("section is not in the cart")
	ErrSectionClosed = errors.New("section is not open for registration")
)

// UnresolvedConflictsError prevents submitting a cart whose sections still overlap.
type UnresolvedConflictsError struct {
	Pairs []schedule.ConflictPair
}

func (err *UnresolvedConflictsError) Error() string {
	return fmt.Sprintf("resolve %d conflict(s) before submitting", len(err.Pairs))
}

// SectionFullError is returned when pending and approved carts already hold every seat of a section.
type SectionFullError struct {
	SectionID string
	Capacity  int
}

func (err *SectionFullError) Error() string {
	return fmt.Sprintf("section is full (%d seats)", err.Capacity)
}

// IsUnavailable tells whether err means the section cannot take more students.
func IsUnavailable(err error) bool {
	cause := errors.Cause(err)
	if cause == ErrSectionClosed {
		return true
	}
	_, full := cause.(*SectionFullError)
	return full
}

type (
	Repository interface {
		// GetCart returns ErrNotFound when the student has no cart yet.
		GetCart(ctx context.Context, studentID string) (Cart, error)
		SaveCart(ctx context.Context, cart Cart) (Cart, error)
		// QueryCarts returns carts with the given status, or all carts when status is empty.
		QueryCarts(ctx context.Context, status Status) ([]Cart, error)
	}

	// SectionFinder supplies the catalog sections a student may pick from.
	SectionFinder interface {
		Section(ctx context.Context, id string) (schedule.CourseSection, error)
		Sections(ctx context.Context) ([]schedule.CourseSection, error)
		// Seats returns the capacity of a section and whether it takes registrations.
		Seats(ctx context.Context, id string) (capacity int, active bool, err error)
	}

	Service struct {
		repo       Repository
		sections   SectionFinder
		maxCredits int
	}
)

func NewService(repo Repository, sections SectionFinder, maxCredits int) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(sections, "sections"),
		vala.GreaterThan(maxCredits, 0, "maxCredits"),
	).CheckAndPanic()

	return &Service{
		repo:       repo,
		sections:   sections,
		maxCredits: maxCredits,
	}
}

func (svc *Service) MaxCredits() int {
	return svc.maxCredits
}

// Cart returns the student's cart, or a fresh draft if they have none.
func (svc *Service) Cart(ctx context.Context, studentID string) (Cart, error) {
	studentID = core.CleanString(studentID)
	cart, err := svc.repo.GetCart(ctx, studentID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return newCart(studentID), nil
		}
		return Cart{}, errors.Wrap(err, "getting cart")
	}
	return cart, nil
}

func (svc *Service) Summary(ctx context.Context, studentID string) (Summary, error) {
	cart, err := svc.Cart(ctx, studentID)
	if err != nil {
		return Summary{}, err
	}
	total := cart.TotalCredits()
	conflicts := cart.Sections.Conflicts()
	if conflicts == nil {
		conflicts = []schedule.ConflictPair{}
	}
	return Summary{
		Cart:             cart,
		TotalCredits:     total,
		MaxCredits:       svc.maxCredits,
		RemainingCredits: svc.maxCredits - total,
		Conflicts:        conflicts,
	}, nil
}

// Check tells whether the section could be added to the student's cart right now.
func (svc *Service) Check(ctx context.Context, studentID, sectionID string) error {
	cart, err := svc.Cart(ctx, studentID)
	if err != nil {
		return err
	}
	if !cart.IsEditable() {
		return ErrCartLocked
	}
	sec, err := svc.sections.Section(ctx, sectionID)
	if err != nil {
		return errors.Wrap(err, "finding section")
	}
	if cart.Sections.Contains(sec.ID) {
		return schedule.ErrAlreadySelected
	}
	if err := svc.available(ctx, sec.ID); err != nil {
		return err
	}
	return cart.Sections.CanAdd(sec, svc.maxCredits)
}

func (svc *Service) Add(ctx context.Context, studentID, sectionID string) (Cart, error) {
	return svc.edit(ctx, studentID, func(sel schedule.Selection) (schedule.Selection, error) {
		sec, err := svc.sections.Section(ctx, sectionID)
		if err != nil {
			return sel, errors.Wrap(err, "finding section")
		}
		if sel.Contains(sec.ID) {
			return sel, schedule.ErrAlreadySelected
		}
		if err := svc.available(ctx, sec.ID); err != nil {
			return sel, err
		}
		return sel.Add(sec, svc.maxCredits)
	})
}

// Remove does not consult the catalog, so sections deleted from it can still be dropped.
func (svc *Service) Remove(ctx context.Context, studentID, sectionID string) (Cart, error) {
	return svc.edit(ctx, studentID, func(sel schedule.Selection) (schedule.Selection, error) {
		return sel.Remove(core.CleanString(sectionID)), nil
	})
}

func (svc *Service) Toggle(ctx context.Context, studentID, sectionID string) (Cart, error) {
	return svc.edit(ctx, studentID, func(sel schedule.Selection) (schedule.Selection, error) {
		if id := core.CleanString(sectionID); sel.Contains(id) {
			return sel.Remove(id), nil
		}
		sec, err := svc.sections.Section(ctx, sectionID)
		if err != nil {
			return sel, errors.Wrap(err, "finding section")
		}
		if err := svc.available(ctx, sec.ID); err != nil {
			return sel, err
		}
		return sel.Toggle(sec, svc.maxCredits)
	})
}

// Replace swaps one selected section for another, typically one of its Alternatives.
// It fails with ErrNotSelected when oldID is not in the cart.
func (svc *Service) Replace(ctx context.Context, studentID, oldID, newID string) (Cart, error) {
	return svc.edit(ctx, studentID, func(sel schedule.Selection) (schedule.Selection, error) {
		oldID = core.CleanString(oldID)
		if !sel.Contains(oldID) {
			return sel, ErrNotSelected
		}
		sec, err := svc.sections.Section(ctx, newID)
		if err != nil {
			return sel, errors.Wrap(err, "finding section")
		}
		if !sel.Contains(sec.ID) {
			if err := svc.available(ctx, sec.ID); err != nil {
				return sel, err
			}
		}
		return sel.Remove(oldID).Add(sec, svc.maxCredits)
	})
}

func (svc *Service) edit(
	ctx context.Context,
	studentID string,
	op func(schedule.Selection) (schedule.Selection, error),
) (Cart, error) {
	cart, err := svc.Cart(ctx, studentID)
	if err != nil {
		return Cart{}, err
	}
	if !cart.IsEditable() {
		return cart, ErrCartLocked
	}

	sel, err := op(cart.Sections)
	if err != nil {
		return cart, err
	}
	cart.Sections = sel
	cart.Status = StatusDraft
	cart.UpdatedAt = NowFunc().UTC()

	cart, err = svc.repo.SaveCart(ctx, cart)
	return cart, errors.Wrap(err, "saving cart")
}

func (svc *Service) Conflicts(ctx context.Context, studentID string) ([]schedule.ConflictPair, error) {
	cart, err := svc.Cart(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return cart.Sections.Conflicts(), nil
}

// Alternatives lists other sections of the same course that fit the rest of the student's cart.
func (svc *Service) Alternatives(ctx context.Context, studentID, sectionID string) ([]schedule.CourseSection, error) {
	cart, err := svc.Cart(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sec, err := svc.sections.Section(ctx, sectionID)
	if err != nil {
		return nil, errors.Wrap(err, "finding section")
	}
	catalog, err := svc.sections.Sections(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing sections")
	}
	counts, err := svc.Enrollment(ctx)
	if err != nil {
		return nil, err
	}

	alts := schedule.Alternatives(sec, cart.Sections.Remove(sec.ID), catalog)
	open := make([]schedule.CourseSection, 0, len(alts))
	for _, alt := range alts {
		if err := svc.seated(ctx, alt.ID, counts); err != nil {
			if IsUnavailable(err) {
				continue
			}
			return nil, err
		}
		open = append(open, alt)
	}
	return open, nil
}

// Enrollment counts, per section ID, the pending and approved carts holding it.
func (svc *Service) Enrollment(ctx context.Context) (map[string]int, error) {
	carts, err := svc.repo.QueryCarts(ctx, "")
	if err != nil {
		return nil, errors.Wrap(err, "querying carts")
	}
	counts := make(map[string]int)
	for _, cart := range carts {
		if cart.Status != StatusPending && cart.Status != StatusApproved {
			continue
		}
		for _, sec := range cart.Sections {
			counts[sec.ID]++
		}
	}
	return counts, nil
}

func (svc *Service) Enrolled(ctx context.Context, sectionID string) (int, error) {
	counts, err := svc.Enrollment(ctx)
	if err != nil {
		return 0, err
	}
	return counts[core.CleanString(sectionID)], nil
}

func (svc *Service) available(ctx context.Context, sectionID string) error {
	counts, err := svc.Enrollment(ctx)
	if err != nil {
		return err
	}
	return svc.seated(ctx, sectionID, counts)
}

// seated fails with ErrSectionClosed or *SectionFullError when the section cannot take one more student.
func (svc *Service) seated(ctx context.Context, sectionID string, counts map[string]int) error {
	capacity, active, err := svc.sections.Seats(ctx, sectionID)
	if err != nil {
		return errors.Wrap(err, "finding section")
	}
	if !active {
		return ErrSectionClosed
	}
	if counts[sectionID] >= capacity {
		return &SectionFullError{SectionID: sectionID, Capacity: capacity}
	}
	return nil
}

// Submit sends a conflict-free, non-empty cart for review.
func (svc *Service) Submit(ctx context.Context, studentID string) (Cart, error) {
	cart, err := svc.Cart(ctx, studentID)
	if err != nil {
		return Cart{}, err
	}
	if !cart.IsEditable() {
		return cart, ErrCartLocked
	}
	if len(cart.Sections) == 0 {
		return cart, ErrEmptyCart
	}
	if pairs := cart.Sections.Conflicts(); len(pairs) > 0 {
		return cart, &UnresolvedConflictsError{Pairs: pairs}
	}
	if err := svc.checkSeats(ctx, cart.Sections); err != nil {
		return cart, err
	}

	now := NowFunc().UTC()
	cart.Status = StatusPending
	cart.Reference = uuid.New().String()
	cart.SubmittedAt = &now
	cart.ReviewedAt = nil
	cart.UpdatedAt = now

	cart, err = svc.repo.SaveCart(ctx, cart)
	return cart, errors.Wrap(err, "saving cart")
}

// checkSeats makes sure every section still taking registrations has a seat left.
// Sections removed from the catalog are kept as saved.
func (svc *Service) checkSeats(ctx context.Context, sel schedule.Selection) error {
	catalog, err := svc.sections.Sections(ctx)
	if err != nil {
		return errors.Wrap(err, "listing sections")
	}
	listed := make(map[string]bool, len(catalog))
	for _, sec := range catalog {
		listed[sec.ID] = true
	}
	counts, err := svc.Enrollment(ctx)
	if err != nil {
		return err
	}
	for _, sec := range sel {
		if !listed[sec.ID] {
			continue
		}
		if err := svc.seated(ctx, sec.ID, counts); err != nil {
			return err
		}
	}
	return nil
}

// Withdraw pulls a pending submission back to draft. Approved carts are final.
func (svc *Service) Withdraw(ctx context.Context, studentID string) (Cart, error) {
	cart, err := svc.Cart(ctx, studentID)
	if err != nil {
		return Cart{}, err
	}
	switch cart.Status {
	case StatusDraft:
		return cart, nil
	case StatusApproved:
		return cart, ErrCartLocked
	}

	cart.Status = StatusDraft
	cart.UpdatedAt = NowFunc().UTC()
	cart, err = svc.repo.SaveCart(ctx, cart)
	return cart, errors.Wrap(err, "saving cart")
}

// Review approves or rejects a pending submission.
func (svc *Service) Review(ctx context.Context, studentID string, approve bool) (Cart, error) {
	cart, err := svc.repo.GetCart(ctx, core.CleanString(studentID))
	if err != nil {
		return Cart{}, errors.Wrap(err, "getting cart")
	}
	if cart.Status != StatusPending {
		return cart, ErrNotPending
	}

	now := NowFunc().UTC()
	cart.Status = StatusRejected
	if approve {
		cart.Status = StatusApproved
	}
	cart.ReviewedAt = &now
	cart.UpdatedAt = now

	cart, err = svc.repo.SaveCart(ctx, cart)
	return cart, errors.Wrap(err, "saving cart")
}

func (svc *Service) Query(ctx context.Context, status Status) ([]Cart, error) {
	if status != "" && !status.IsValid() {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid status"})
	}
	return svc.repo.QueryCarts(ctx, status)
}
