package project

// Project is a portfolio entry stored in the "projects" collection.
// The image is carried inline as a base64 data URI so a single document
// read renders the whole card; the compressor keeps it under 1 MiB.
type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Badge        string   `json:"badge"`
	Link         string   `json:"link"`
	Featured     bool     `json:"featured"`
	ImageBase64  string   `json:"image_base64"`
	CreatedAt    string   `json:"created_at,omitempty"`
}
