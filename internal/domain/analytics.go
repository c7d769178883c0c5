package domain

// Analytics buckets the cards of one level by learning progress.
// New + Learning + Mastered == Total.
type Analytics struct {
	Level    string `json:"level"`
	New      int    `json:"new"`
	Learning int    `json:"learning"`
	Mastered int    `json:"mastered"`
	Total    int    `json:"total"`
}

// Due returns how many of the level's cards are currently due: every new
// card plus every learning card.
func (a Analytics) Due() int {
	return a.New + a.Learning
}
