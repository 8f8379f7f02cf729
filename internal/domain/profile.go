package domain

import "time"

// SocialPlatforms lists the link keys a profile may carry, in display order.
var SocialPlatforms = []string{"youtube", "twitter", "facebook", "linkedin", "instagram"}

// Experience is one job entry on a profile.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is one school entry on a profile.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the one-per-user descriptive document.
type Profile struct {
	UserID         string
	Status         string
	Company        string
	Website        string
	Location       string
	Bio            string
	GithubUsername string
	Skills         []string
	Social         map[string]string
	Experience     []Experience
	Education      []Education
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Owner is populated on reads; it is not part of the stored document.
	Owner *Author
}

// AddExperience prepends e, most recent first.
func (p *Profile) AddExperience(e Experience) {
	if e.Current {
		e.To = nil
	}
	p.Experience = append([]Experience{e}, p.Experience...)
}

// RemoveExperience deletes the entry whose id matches.
func (p *Profile) RemoveExperience(id string) error {
	for i := range p.Experience {
		if p.Experience[i].ID == id {
			p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// AddEducation prepends e, most recent first.
func (p *Profile) AddEducation(e Education) {
	if e.Current {
		e.To = nil
	}
	p.Education = append([]Education{e}, p.Education...)
}

// RemoveEducation deletes the entry whose id matches.
func (p *Profile) RemoveEducation(id string) error {
	for i := range p.Education {
		if p.Education[i].ID == id {
			p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}
