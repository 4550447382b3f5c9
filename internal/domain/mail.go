package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateWorkerMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type SchedulePublishedMailData struct {
	FullName string   `json:"fullName"`
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	Shifts   []string `json:"shifts"` // preformatted "2026-03-06 09:00-11:00 Baralho" lines
}

type SubstitutionDecisionMailData struct {
	FullName    string `json:"fullName"`
	ServiceName string `json:"serviceName"`
	Date        string `json:"date"`
	Approved    bool   `json:"approved"`
}
