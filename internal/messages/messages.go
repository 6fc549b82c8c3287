// Package messages contains every text the bot can send to a user.
// Templates are fmt format strings.
package messages

// Main menu options
const (
	MenuLearn   = "Учиться"
	MenuAddCard = "Добавить слово"
)

// Learning session options
const (
	LearningSkip   = "Пропустить"
	LearningDelete = "Удалить карточку"
	LearningFinish = "Завершить"
)

// MainMenu lists main menu options in display order
var MainMenu = []string{MenuLearn, MenuAddCard}

// LearningMenu lists learning options in display order
var LearningMenu = []string{LearningSkip, LearningDelete, LearningFinish}

const (
	UserNotStarted     = "Отправьте команду /start, чтобы начать."
	BotError           = "Ошибка работы бота"
	GreetingNewUser    = "Добро пожаловать, %s!"
	GreetingOldUser    = "Приветствую снова, %s!"
	DeletedUser        = "%s, ваши данные удалены."
	DeletedNotExisting = "%s, ваши данные отсутствуют."
	SelectMainMenu     = "Выберите вариант из меню ниже:"

	// Learning
	NoLearningCards    = "Недостаточно карточек для обучения: у вас %d, нужно хотя бы %d с разными переводами."
	PlanLearningCount  = "Карточек в этом занятии: %d."
	SelectTranslation  = "Выберите перевод слова 🇷🇺 %s:"
	CorrectTranslation = "✅ Верно: %s — %s"
	WrongTranslation   = "❌ Неверно, попробуйте ещё раз."
	SkippedTranslation = "Карточка пропущена."
	DeletedCard        = "Карточка удалена:\n\n🇷🇺 %s\n🇬🇧 %s"
	FinishedLearning   = "Обучение завершено.\n\nВерно: %d\nПропущено: %d\nОшибок: %d"

	// Adding cards
	EnterSourceWord  = "Введите новое слово 🇷🇺:"
	EnterTargetWord  = "Введите его перевод 🇬🇧:"
	AddedCard        = "Добавлена новая карточка:\n\n🇷🇺 %s\n🇬🇧 %s"
	NewLearningCount = "Всего карточек для изучения: %d."
	WordTooLong      = "Слово слишком длинное, максимум %d символов."
	WordEmpty        = "Слово не может быть пустым."

	Help = "Бот помогает учить английские слова по карточкам.\n\n" +
		"/start — начать работу и открыть меню\n" +
		"/clear — удалить все ваши данные\n" +
		"/help — показать эту справку\n\n" +
		"«" + MenuLearn + "» — выбрать перевод для каждой вашей карточки.\n" +
		"«" + MenuAddCard + "» — добавить свою пару слов."
)
