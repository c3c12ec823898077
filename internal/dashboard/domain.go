package dashboard

// Metric is a single dashboard statistic. Display is the formatted value
// shown to users; Value keeps the raw number for clients that chart it.
type Metric struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit,omitempty"`
	Display string  `json:"display"`
}

// Section is one dashboard feature area.
type Section struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Metrics     []Metric `json:"metrics"`
}

// Overview is the aggregated dashboard payload for a tenant.
type Overview struct {
	CompanyName string           `json:"company_name"`
	Plan        string           `json:"plan"`
	TeamSize    int64            `json:"team_size"`
	MaxUsers    int64            `json:"max_users"` // 0 means unlimited
	Sections    []Section        `json:"sections"`
	Usage       map[string]int64 `json:"usage,omitempty"`
}
