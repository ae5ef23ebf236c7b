package dto

type SuggestionResponse struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Bio    string `json:"bio"`
	Age    int    `json:"age"`
}

type SuggestionsResponse struct {
	Items []SuggestionResponse `json:"items"`
}
