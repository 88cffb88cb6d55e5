package schedule

// Selection is an ordered set of sections, unique by ID, in the order they were picked.
// Operations never modify the receiver; they return a new Selection.
type Selection []CourseSection

func (sel Selection) TotalCredits() int {
	var total int
	for _, s := range sel {
		total += s.Credits
	}
	return total
}

func (sel Selection) indexOf(id string) int {
	for i, s := range sel {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (sel Selection) Contains(id string) bool {
	return sel.indexOf(id) >= 0
}

func (sel Selection) firstOverlap(candidate CourseSection) (CourseSection, bool) {
	for _, s := range sel {
		if Overlaps(s, candidate) {
			return s, true
		}
	}
	return CourseSection{}, false
}

// CanAdd checks the credit cap first, then time conflicts against existing members in selection order.
func (sel Selection) CanAdd(candidate CourseSection, maxCredits int) error {
	if total := sel.TotalCredits() + candidate.Credits; total > maxCredits {
		return &CreditLimitExceededError{Attempted: total, Max: maxCredits}
	}
	if with, ok := sel.firstOverlap(candidate); ok {
		return &TimeConflictError{Candidate: candidate, With: with}
	}
	return nil
}

func (sel Selection) Add(candidate CourseSection, maxCredits int) (Selection, error) {
	if sel.Contains(candidate.ID) {
		return sel, ErrAlreadySelected
	}
	if err := sel.CanAdd(candidate, maxCredits); err != nil {
		return sel, err
	}
	added := make(Selection, len(sel), len(sel)+1)
	copy(added, sel)
	return append(added, candidate), nil
}

// Remove is a no-op when id is not selected.
func (sel Selection) Remove(id string) Selection {
	idx := sel.indexOf(id)
	if idx < 0 {
		return sel
	}
	removed := make(Selection, 0, len(sel)-1)
	removed = append(removed, sel[:idx]...)
	return append(removed, sel[idx+1:]...)
}

// Toggle removes candidate when it is already selected and adds it otherwise.
func (sel Selection) Toggle(candidate CourseSection, maxCredits int) (Selection, error) {
	if sel.Contains(candidate.ID) {
		return sel.Remove(candidate.ID), nil
	}
	return sel.Add(candidate, maxCredits)
}

func (sel Selection) Conflicts() []ConflictPair {
	return FindConflicts(sel)
}
