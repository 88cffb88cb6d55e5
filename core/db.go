package core

import "strings"

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// ParseOrderings reads a comma separated list like "dept,-credits" ("-" for descending).
// Fields not in allowed are dropped.
func ParseOrderings(param string, allowed ...string) []DBOrdering {
	var ords []DBOrdering
	if param == "" {
		return ords
	}
	for _, field := range strings.Split(param, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		for _, a := range allowed {
			if field == a {
				ords = append(ords, DBOrdering{Field: field, Ascending: !descending})
				break
			}
		}
	}
	return ords
}
