package dto

type ToggleFavoriteResponse struct {
	Slug    string `json:"slug"`
	Added   bool   `json:"added"`
	Removed bool   `json:"removed"`
}
