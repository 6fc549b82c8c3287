package models

// Language tags a word as a source (russian) or target (english) word
type Language string

const (
	LanguageSource Language = "ru"
	LanguageTarget Language = "en"
)

// Word is a normalized word of one language. Words are shared between all
// cards and users.
type Word struct {
	ID       int64    `json:"id" db:"id"`
	Text     string   `json:"text" db:"text"`
	Language Language `json:"language" db:"language"`
}

// Card is a source/target word pair. Cards are shared, a user only holds
// references to them.
type Card struct {
	ID     int64 `json:"id" db:"id"`
	Source Word  `json:"source" db:"source"`
	Target Word  `json:"target" db:"target"`
}

// CardPair is a plain text pair used for default card sets and imports
type CardPair struct {
	Source string
	Target string
}
