package models

type WearableDevice struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DataTypes   []string `json:"data_types"`
	Connected   bool     `json:"connected"`
}
