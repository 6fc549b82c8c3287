package database

import (
	"errors"

	"github.com/example/cardbot/pkg/models"
)

var (
	// ErrUserNotFound is returned when updating a user that does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrLanguageMismatch is returned when a card is built from words of the
	// wrong language roles
	ErrLanguageMismatch = errors.New("card words must be a source and a target word")
)

// cardRow is a flat card joined with both of its words
type cardRow struct {
	ID         int64  `db:"id"`
	SourceID   int64  `db:"source_id"`
	SourceText string `db:"source_text"`
	TargetID   int64  `db:"target_id"`
	TargetText string `db:"target_text"`
}

func (r cardRow) toCard() models.Card {
	return models.Card{
		ID:     r.ID,
		Source: models.Word{ID: r.SourceID, Text: r.SourceText, Language: models.LanguageSource},
		Target: models.Word{ID: r.TargetID, Text: r.TargetText, Language: models.LanguageTarget},
	}
}

const cardColumns = `c.id AS id, s.id AS source_id, s.text AS source_text, t.id AS target_id, t.text AS target_text`

// wordJoins attaches both words to a card aliased as c
const wordJoins = `
	JOIN words s ON s.id = c.source_word_id
	JOIN words t ON t.id = c.target_word_id`
