package schedule

import "sort"

// ConflictPair is an unordered pair of overlapping sections, stored with A.ID <= B.ID.
type ConflictPair struct {
	A CourseSection `json:"a"`
	B CourseSection `json:"b"`
}

func newConflictPair(a, b CourseSection) ConflictPair {
	if b.ID < a.ID {
		a, b = b, a
	}
	return ConflictPair{A: a, B: b}
}

// Key identifies the pair independently of the order it was found in.
func (p ConflictPair) Key() string {
	return p.A.ID + "-" + p.B.ID
}

// Overlaps reports whether a and b meet on the same day at overlapping times.
// Ranges are half-open: a section ending at 10:30 does not overlap one starting at 10:30.
func Overlaps(a, b CourseSection) bool {
	return a.Day == b.Day && a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}

// FindConflicts returns every overlapping pair of sel, in the order pairs (i, j), i < j, are examined.
func FindConflicts(sel Selection) []ConflictPair {
	var pairs []ConflictPair
	for i := 0; i < len(sel); i++ {
		for j := i + 1; j < len(sel); j++ {
			if Overlaps(sel[i], sel[j]) {
				pairs = append(pairs, newConflictPair(sel[i], sel[j]))
			}
		}
	}
	return pairs
}

// Alternatives lists the other sections of the same course that could replace section
// without clashing with anything in sel.
func Alternatives(section CourseSection, sel Selection, catalog []CourseSection) []CourseSection {
	alts := make([]CourseSection, 0)
	for _, c := range catalog {
		if c.ID == section.ID || c.Code != section.Code || sel.Contains(c.ID) {
			continue
		}
		if _, clash := sel.firstOverlap(c); clash {
			continue
		}
		alts = append(alts, c)
	}
	return alts
}

// ByDay groups sel into a weekly timetable, each day sorted by start time.
func ByDay(sel Selection) map[Day][]CourseSection {
	table := make(map[Day][]CourseSection, len(Days))
	for _, s := range sel {
		table[s.Day] = append(table[s.Day], s)
	}
	for _, secs := range table {
		sort.SliceStable(secs, func(i, j int) bool { return secs[i].StartMinute < secs[j].StartMinute })
	}
	return table
}
