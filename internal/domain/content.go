package domain

type ProgramItem struct {
	Title           string   `json:"title"`
	Time            string   `json:"time"`
	Date            string   `json:"date"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	Image           string   `json:"image,omitempty"`
	Placeholder     string   `json:"placeholder,omitempty"`
	Speakers        []string `json:"speakers,omitempty"`
}

type Speaker struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Bio         string `json:"bio,omitempty"`
	Image       string `json:"image,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
}
