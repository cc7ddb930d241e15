package dto

type DependencyHealth struct {
	State     string `json:"state"`
	Connected bool   `json:"connected"`
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Database  DependencyHealth `json:"database"`
	Cache     DependencyHealth `json:"cache"`
	Uptime    float64          `json:"uptime"`
}
