package controller

import (
	"fmt"

	"github.com/example/cardbot/internal/cards"
	"github.com/example/cardbot/internal/excel"
	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/pkg/models"
)

// LoadDefaultCards returns the card set for new users. A file takes
// precedence over the built-in sets.
func LoadDefaultCards(file string, testWords bool, log *logger.Logger) ([]models.CardPair, error) {
	if file == "" {
		if testWords {
			return cards.TestCards, nil
		}
		return cards.DefaultCards, nil
	}

	result, err := excel.ImportCards(excel.DefaultImportConfig(file))
	if err != nil {
		return nil, fmt.Errorf("failed to import default cards: %w", err)
	}
	for _, e := range result.Errors {
		log.Warn("Skipped default card row", "file", file, "error", e)
	}
	if len(result.Pairs) == 0 {
		return nil, fmt.Errorf("no cards in %s", file)
	}

	log.Info("Loaded default cards", "file", file,
		"processed", result.TotalProcessed, "imported", len(result.Pairs), "skipped", result.Skipped)
	return result.Pairs, nil
}
