package models

type PaginatedResponse struct {
	Data  any `json:"data"`
	Total int `json:"total"`
	Limit int `json:"limit"`
}
