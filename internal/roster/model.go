package roster

import "github.com/SchoolMenu/nutrition-sona/internal/menu"

// Child is a student owned by a guardian account.
type Child struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Grade      string           `json:"grade"`
	GuardianID string           `json:"guardian_id"`
	Allergies  menu.AllergenSet `json:"allergies"`
}

// Profile is the display record of a guardian or staff account.
type Profile struct {
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	SchoolCode string `json:"school_code"`
}

// Snapshot is the roster as seen by one aggregation run.
type Snapshot struct {
	Children []Child
	Profiles []Profile
}

func (s Snapshot) ChildByID() map[string]Child {
	m := make(map[string]Child, len(s.Children))
	for _, c := range s.Children {
		m[c.ID] = c
	}
	return m
}

func (s Snapshot) GuardianNames() map[string]string {
	m := make(map[string]string, len(s.Profiles))
	for _, p := range s.Profiles {
		m[p.UserID] = p.FullName
	}
	return m
}
