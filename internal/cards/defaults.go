package cards

import "github.com/example/cardbot/pkg/models"

// DefaultCards is the card set every new user starts with
var DefaultCards = []models.CardPair{
	{Source: "дом", Target: "house"},
	{Source: "кот", Target: "cat"},
	{Source: "собака", Target: "dog"},
	{Source: "вода", Target: "water"},
	{Source: "хлеб", Target: "bread"},
	{Source: "книга", Target: "book"},
	{Source: "окно", Target: "window"},
	{Source: "дверь", Target: "door"},
	{Source: "стол", Target: "table"},
	{Source: "стул", Target: "chair"},
	{Source: "солнце", Target: "sun"},
	{Source: "луна", Target: "moon"},
	{Source: "дерево", Target: "tree"},
	{Source: "цветок", Target: "flower"},
	{Source: "машина", Target: "car"},
	{Source: "город", Target: "city"},
	{Source: "улица", Target: "street"},
	{Source: "друг", Target: "friend"},
	{Source: "семья", Target: "family"},
	{Source: "работа", Target: "work"},
	{Source: "школа", Target: "school"},
	{Source: "время", Target: "time"},
	{Source: "день", Target: "day"},
	{Source: "ночь", Target: "night"},
	{Source: "утро", Target: "morning"},
	{Source: "вечер", Target: "evening"},
	{Source: "год", Target: "year"},
	{Source: "рука", Target: "hand"},
	{Source: "голова", Target: "head"},
	{Source: "глаз", Target: "eye"},
	{Source: "яблоко", Target: "apple"},
	{Source: "молоко", Target: "milk"},
	{Source: "красный", Target: "red"},
	{Source: "большой", Target: "big"},
	{Source: "маленький", Target: "small"},
	{Source: "новый", Target: "new"},
	{Source: "старый", Target: "old"},
	{Source: "хороший", Target: "good"},
	{Source: "читать", Target: "read"},
	{Source: "писать", Target: "write"},
}

// TestCards is a small card set for manual testing
var TestCards = []models.CardPair{
	{Source: "дом", Target: "house"},
	{Source: "кот", Target: "cat"},
	{Source: "собака", Target: "dog"},
	{Source: "вода", Target: "water"},
	{Source: "хлеб", Target: "bread"},
}
