package api

type HealthResponse struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo"`
	Redis  string `json:"redis"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
