package models

// ChoiceCount is the number of answer options shown for every question
const ChoiceCount = 4

// DistractorCount is the number of wrong options per question
const DistractorCount = ChoiceCount - 1

// AddCardProgress holds the source word entered at the first step of the
// add card dialogue.
type AddCardProgress struct {
	UserID     int64 `json:"user_id" db:"user_id"`
	SourceWord Word  `json:"source_word" db:"source_word"`
}

// Distractor is a wrong answer shown along with the correct one
type Distractor struct {
	Position int  `json:"position" db:"position"`
	Card     Card `json:"card" db:"card"`
}

// LearningQuestion is one pending question of a learning session
type LearningQuestion struct {
	ID             int64        `json:"id" db:"id"`
	UserID         int64        `json:"user_id" db:"user_id"`
	Order          int          `json:"order" db:"order_index"`
	Card           Card         `json:"card" db:"card"`
	AnswerPosition int          `json:"answer_position" db:"answer_position"`
	Distractors    []Distractor `json:"distractors" db:"-"`
}

// Choices returns all options in presentation order: distractors sorted by
// position with the correct card inserted at AnswerPosition.
func (q *LearningQuestion) Choices() []Card {
	cards := make([]Card, 0, len(q.Distractors)+1)
	for _, d := range q.Distractors {
		cards = append(cards, d.Card)
	}
	pos := q.AnswerPosition
	if pos < 0 {
		pos = 0
	}
	if pos > len(cards) {
		pos = len(cards)
	}
	cards = append(cards, Card{})
	copy(cards[pos+1:], cards[pos:])
	cards[pos] = q.Card
	return cards
}

// LearningProgress holds counters of the current learning session
type LearningProgress struct {
	UserID    int64 `json:"user_id" db:"user_id"`
	Succeeded int   `json:"succeeded" db:"succeeded_count"`
	Failed    int   `json:"failed" db:"failed_count"`
	Skipped   int   `json:"skipped" db:"skipped_count"`
}
