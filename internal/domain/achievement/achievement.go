package achievement

const DefaultCategory = "hackathon"

// Achievement lives in the "achievements" collection. Icon is a feather icon
// name rendered by the front end.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Rank        string `json:"rank"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Icon        string `json:"icon"`
}
