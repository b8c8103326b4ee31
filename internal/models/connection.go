package models

import "time"

// ActionConnect is a connection request, with or without a note.
const ActionConnect = "connect"

// Profile holds the fields scraped from a LinkedIn profile page.
type Profile struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Headline string `json:"headline"`
}

// FirstName returns the first word of the profile name.
func (p Profile) FirstName() string {
	for i, r := range p.Name {
		if r == ' ' {
			return p.Name[:i]
		}
	}
	return p.Name
}

// ConnectionAction is one logged automator action against a profile.
type ConnectionAction struct {
	ID         string    `json:"id"`
	ProfileURL string    `json:"profile_url"`
	Name       string    `json:"name"`
	Headline   string    `json:"headline"`
	Action     string    `json:"action"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
