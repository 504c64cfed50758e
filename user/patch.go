package user

import "github.com/arllen133/userdb/clause"

// Patch carries the optional new values for Update. A nil field is omitted;
// an empty Name or Email is treated the same way.
type Patch struct {
	Name  *string
	Email *string
	Age   *int
}

// apply copies the supplied values onto u and returns the assignments for the
// columns that actually changed.
func (p Patch) apply(u *User) []clause.Assignment {
	var set []clause.Assignment
	if p.Name != nil && *p.Name != "" && *p.Name != u.Name {
		u.Name = *p.Name
		set = append(set, Columns.Name.Set(u.Name))
	}
	if p.Email != nil && *p.Email != "" && *p.Email != u.Email {
		u.Email = *p.Email
		set = append(set, Columns.Email.Set(u.Email))
	}
	if p.Age != nil && *p.Age != u.Age {
		u.Age = *p.Age
		set = append(set, Columns.Age.Set(u.Age))
	}
	return set
}
