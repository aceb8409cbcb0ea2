package model

import "time"

// Case is a legal matter. Its members (UserIDs) decide which todos a
// case-scoped user may see.
type Case struct {
	ID        int64
	Name      string
	ClientID  *int64
	UserIDs   []string // usernames
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasUser reports whether username is a member of the case
func (c *Case) HasUser(username string) bool {
	for _, u := range c.UserIDs {
		if u == username {
			return true
		}
	}
	return false
}
