package models

import "time"

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Admin is the administrator's email. The admin is never listed in
	// Members; membership order carries no meaning.
	Admin   string   `json:"admin"`
	Members []string `json:"members"`
}

// HasMember reports whether email is currently on the member list.
func (p *Project) HasMember(email string) bool {
	for _, member := range p.Members {
		if member == email {
			return true
		}
	}
	return false
}

// RemoveMember drops email from the member list, returning false when
// the email was not a member.
func (p *Project) RemoveMember(email string) bool {
	for i, member := range p.Members {
		if member == email {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return true
		}
	}
	return false
}
