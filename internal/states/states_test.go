package states_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cardbot/internal/cards"
	"github.com/example/cardbot/internal/database"
	"github.com/example/cardbot/internal/logger"
	"github.com/example/cardbot/internal/messages"
	"github.com/example/cardbot/internal/quiz"
	"github.com/example/cardbot/internal/states"
	"github.com/example/cardbot/internal/testdb"
	"github.com/example/cardbot/pkg/models"
)

var ctx = context.Background()

var fivePairs = []models.CardPair{
	{Source: "один", Target: "one"},
	{Source: "два", Target: "two"},
	{Source: "три", Target: "three"},
	{Source: "четыре", Target: "four"},
	{Source: "пять", Target: "five"},
}

type fixture struct {
	t       *testing.T
	tx      *database.Tx
	manager *states.Manager
	cards   *cards.Manager
	user    *models.User
}

// run executes fn against a fresh database with user 1 in the main menu
func run(t *testing.T, pairs []models.CardPair, fn func(f *fixture)) {
	db := testdb.New(t)
	cardMgr := cards.NewManager(logger.Nop())
	manager := states.NewManager(cardMgr, quiz.NewBuilder(logger.Nop()), logger.Nop())

	testdb.WithTx(t, db, func(tx *database.Tx) error {
		user := &models.User{ID: 1, FirstName: "Test", State: models.StateMainMenu}
		require.NoError(t, tx.AddUser(ctx, user))
		_, err := cardMgr.SeedDefaultCards(ctx, tx, user.ID, pairs)
		require.NoError(t, err)

		fn(&fixture{t: t, tx: tx, manager: manager, cards: cardMgr, user: user})
		return nil
	})
}

func (f *fixture) send(text string) *models.OutputMessage {
	f.t.Helper()
	resp, err := f.manager.Respond(ctx, f.tx, &models.InputMessage{User: f.user, Text: text})
	require.NoError(f.t, err)
	return resp
}

func (f *fixture) storedState() models.UserState {
	f.t.Helper()
	user, err := f.tx.GetUser(ctx, f.user.ID)
	require.NoError(f.t, err)
	require.NotNil(f.t, user)
	return user.State
}

func (f *fixture) next() *models.LearningQuestion {
	f.t.Helper()
	q, err := f.tx.GetNextLearningQuestion(ctx, f.user.ID)
	require.NoError(f.t, err)
	return q
}

func (f *fixture) progress() models.LearningProgress {
	f.t.Helper()
	p, err := f.tx.GetLearningProgress(ctx, f.user.ID)
	require.NoError(f.t, err)
	require.NotNil(f.t, p)
	return *p
}

func (f *fixture) questionCount() int {
	f.t.Helper()
	n, err := f.tx.CountLearningQuestions(ctx, f.user.ID)
	require.NoError(f.t, err)
	return n
}

func TestMainMenu(t *testing.T) {
	run(t, nil, func(f *fixture) {
		resp, err := f.manager.StartMainMenu(ctx, f.tx, &models.InputMessage{User: f.user})
		require.NoError(t, err)
		assert.Equal(t, messages.SelectMainMenu, resp.Text)
		assert.Equal(t, &models.Keyboard{RowWidth: 1, Buttons: []string{messages.MenuLearn, messages.MenuAddCard}}, resp.Keyboard)

		for _, text := range []string{"учиться", "hello", "", messages.LearningFinish} {
			assert.Nil(t, f.send(text), "input %q", text)
		}
		assert.Equal(t, models.StateMainMenu, f.storedState())
	})
}

func TestNoHandlerForState(t *testing.T) {
	run(t, nil, func(f *fixture) {
		f.user.State = models.StateNewUser
		assert.Nil(t, f.send("anything"))

		f.user.State = models.StateUnknown
		assert.Nil(t, f.send("anything"))
	})
}

func TestLearningRequiresEnoughCards(t *testing.T) {
	run(t, fivePairs[:3], func(f *fixture) {
		resp := f.send(messages.MenuLearn)
		require.NotNil(t, resp)
		assert.True(t, strings.HasPrefix(resp.Text, fmt.Sprintf(messages.NoLearningCards, 3, models.ChoiceCount)))
		assert.Equal(t, models.StateMainMenu, f.storedState())
		assert.Equal(t, models.StateMainMenu, f.user.State)
		assert.Zero(t, f.questionCount())
	})
}

func TestLearningRequiresDistinctTranslations(t *testing.T) {
	pairs := []models.CardPair{
		{Source: "кот", Target: "cat"},
		{Source: "кошка", Target: "cat"},
		{Source: "собака", Target: "dog"},
		{Source: "дом", Target: "house"},
	}
	run(t, pairs, func(f *fixture) {
		resp := f.send(messages.MenuLearn)
		require.NotNil(t, resp)
		assert.Contains(t, resp.Text, fmt.Sprintf(messages.NoLearningCards, 3, models.ChoiceCount))
		assert.Equal(t, models.StateMainMenu, f.storedState())
		assert.Zero(t, f.questionCount())
	})
}

func TestLearningSessionQuestions(t *testing.T) {
	run(t, fivePairs, func(f *fixture) {
		resp := f.send(messages.MenuLearn)
		require.NotNil(t, resp)
		assert.Equal(t, models.StateLearning, f.storedState())
		assert.True(t, strings.HasPrefix(resp.Text, fmt.Sprintf(messages.PlanLearningCount, len(fivePairs))))

		questions, err := f.tx.GetLearningQuestions(ctx, f.user.ID)
		require.NoError(t, err)
		require.Len(t, questions, len(fivePairs))

		seenCards := make(map[int64]bool)
		for i, q := range questions {
			assert.Equal(t, i, q.Order)
			seenCards[q.Card.ID] = true

			require.Len(t, q.Distractors, models.DistractorCount)
			texts := map[string]bool{q.Card.Target.Text: true}
			for _, d := range q.Distractors {
				assert.False(t, texts[d.Card.Target.Text], "duplicate choice %q", d.Card.Target.Text)
				texts[d.Card.Target.Text] = true
			}
			assert.GreaterOrEqual(t, q.AnswerPosition, 0)
			assert.Less(t, q.AnswerPosition, models.ChoiceCount)
		}
		assert.Len(t, seenCards, len(fivePairs))

		// The first question is shown with its keyboard
		first := questions[0]
		assert.Contains(t, resp.Text, fmt.Sprintf(messages.SelectTranslation, first.Card.Source.Text))
		assert.Equal(t, quiz.Keyboard(&first), resp.Keyboard)

		progress := f.progress()
		assert.Equal(t, models.LearningProgress{UserID: f.user.ID}, progress)
	})
}

func TestLearningAnswers(t *testing.T) {
	run(t, fivePairs, func(f *fixture) {
		require.NotNil(t, f.send(messages.MenuLearn))

		// Wrong answer keeps the question unchanged
		q := f.next()
		resp := f.send("definitely wrong")
		require.NotNil(t, resp)
		assert.True(t, strings.HasPrefix(resp.Text, messages.WrongTranslation))
		assert.Equal(t, q, f.next())
		assert.Equal(t, quiz.Keyboard(q), resp.Keyboard)
		assert.Equal(t, 1, f.progress().Failed)
		assert.Equal(t, 5, f.questionCount())

		// Correct answer is matched after normalization
		resp = f.send("  " + strings.ToUpper(q.Card.Target.Text) + " ")
		require.NotNil(t, resp)
		assert.True(t, strings.HasPrefix(resp.Text, fmt.Sprintf(messages.CorrectTranslation, q.Card.Source.Text, q.Card.Target.Text)))
		assert.Equal(t, 1, f.progress().Succeeded)
		assert.Equal(t, 4, f.questionCount())
		assert.NotEqual(t, q.ID, f.next().ID)

		// Skip
		resp = f.send(messages.LearningSkip)
		require.NotNil(t, resp)
		assert.True(t, strings.HasPrefix(resp.Text, messages.SkippedTranslation))
		assert.Equal(t, 1, f.progress().Skipped)
		assert.Equal(t, 3, f.questionCount())

		// Delete removes the card from the collection and continues
		deleted := f.next()
		resp = f.send(messages.LearningDelete)
		require.NotNil(t, resp)
		assert.True(t, strings.HasPrefix(resp.Text, fmt.Sprintf(messages.DeletedCard, deleted.Card.Source.Text, deleted.Card.Target.Text)))
		assert.Equal(t, 2, f.questionCount())
		assert.Equal(t, models.StateLearning, f.storedState())

		userCards, err := f.tx.GetUserCards(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Len(t, userCards, 4)
		assert.NotContains(t, userCards, deleted.Card)

		assert.Equal(t, models.LearningProgress{UserID: f.user.ID, Succeeded: 1, Failed: 1, Skipped: 1}, f.progress())
	})
}

func TestLearningFinish(t *testing.T) {
	run(t, fivePairs, func(f *fixture) {
		require.NotNil(t, f.send(messages.MenuLearn))
		f.send("wrong")
		f.send(messages.LearningSkip)

		resp := f.send(messages.LearningFinish)
		require.NotNil(t, resp)
		assert.True(t, strings.HasPrefix(resp.Text, fmt.Sprintf(messages.FinishedLearning, 0, 1, 1)))
		assert.Contains(t, resp.Text, messages.SelectMainMenu)
		assert.Equal(t, []string{messages.MenuLearn, messages.MenuAddCard}, resp.Keyboard.Buttons)
		assert.Zero(t, f.questionCount())
		assert.Equal(t, models.StateMainMenu, f.storedState())
	})
}

func TestLearningExhaustion(t *testing.T) {
	run(t, fivePairs, func(f *fixture) {
		require.NotNil(t, f.send(messages.MenuLearn))

		var resp *models.OutputMessage
		for i := 0; i < len(fivePairs); i++ {
			q := f.next()
			require.NotNil(t, q)
			resp = f.send(q.Card.Target.Text)
			require.NotNil(t, resp)
		}

		assert.Contains(t, resp.Text, fmt.Sprintf(messages.FinishedLearning, 5, 0, 0))
		assert.Zero(t, f.questionCount())
		assert.Equal(t, models.StateMainMenu, f.storedState())
	})
}

func TestLearningRestartClearsSession(t *testing.T) {
	run(t, fivePairs, func(f *fixture) {
		require.NotNil(t, f.send(messages.MenuLearn))
		f.send("wrong")
		f.send(messages.LearningSkip)

		_, err := f.manager.Start(ctx, f.tx, &models.InputMessage{User: f.user}, models.StateLearning)
		require.NoError(t, err)
		assert.Equal(t, len(fivePairs), f.questionCount())
		assert.Equal(t, models.LearningProgress{UserID: f.user.ID}, f.progress())
	})
}

func TestLearningWithoutQuestionsFinishes(t *testing.T) {
	run(t, fivePairs, func(f *fixture) {
		f.user.State = models.StateLearning
		resp := f.send("anything")
		require.NotNil(t, resp)
		assert.True(t, strings.HasPrefix(resp.Text, fmt.Sprintf(messages.FinishedLearning, 0, 0, 0)))
		assert.Equal(t, models.StateMainMenu, f.storedState())
	})
}

func TestAddCardFlow(t *testing.T) {
	run(t, nil, func(f *fixture) {
		resp := f.send(messages.MenuAddCard)
		require.NotNil(t, resp)
		assert.Equal(t, messages.EnterSourceWord, resp.Text)
		assert.Nil(t, resp.Keyboard)
		assert.Equal(t, models.StateAddingCard, f.storedState())

		resp = f.send(" Привет ")
		require.NotNil(t, resp)
		assert.Equal(t, messages.EnterTargetWord, resp.Text)

		resp = f.send("Hello")
		require.NotNil(t, resp)
		assert.True(t, strings.HasPrefix(resp.Text, fmt.Sprintf(messages.AddedCard, "привет", "hello")))
		assert.Contains(t, resp.Text, fmt.Sprintf(messages.NewLearningCount, 1))
		assert.Contains(t, resp.Text, messages.SelectMainMenu)
		assert.Equal(t, models.StateMainMenu, f.storedState())

		userCards, err := f.tx.GetUserCards(ctx, f.user.ID)
		require.NoError(t, err)
		require.Len(t, userCards, 1)
		assert.Equal(t, "привет", userCards[0].Source.Text)
		assert.Equal(t, "hello", userCards[0].Target.Text)

		progress, err := f.tx.GetAddCardProgress(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Nil(t, progress)

		// The same pair from another user reuses words and card
		other := &models.User{ID: 2, State: models.StateMainMenu}
		require.NoError(t, f.tx.AddUser(ctx, other))
		for _, text := range []string{messages.MenuAddCard, "привет", "hello"} {
			_, err := f.manager.Respond(ctx, f.tx, &models.InputMessage{User: other, Text: text})
			require.NoError(t, err)
		}
		otherCards, err := f.tx.GetUserCards(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, userCards, otherCards)
	})
}

func TestAddCardRejectsInvalidWords(t *testing.T) {
	long := strings.Repeat("x", cards.MaxWordLength+1)
	tooLong := fmt.Sprintf(messages.WordTooLong, cards.MaxWordLength)

	run(t, nil, func(f *fixture) {
		require.NotNil(t, f.send(messages.MenuAddCard))

		resp := f.send(long)
		require.NotNil(t, resp)
		assert.Equal(t, tooLong+"\n\n"+messages.EnterSourceWord, resp.Text)

		resp = f.send("   ")
		require.NotNil(t, resp)
		assert.Equal(t, messages.WordEmpty+"\n\n"+messages.EnterSourceWord, resp.Text)

		resp = f.send("кот")
		require.NotNil(t, resp)
		assert.Equal(t, messages.EnterTargetWord, resp.Text)

		// Pending source word survives a rejected translation
		resp = f.send(long)
		require.NotNil(t, resp)
		assert.Equal(t, tooLong+"\n\n"+messages.EnterTargetWord, resp.Text)
		progress, err := f.tx.GetAddCardProgress(ctx, f.user.ID)
		require.NoError(t, err)
		require.NotNil(t, progress)
		assert.Equal(t, "кот", progress.SourceWord.Text)

		resp = f.send("cat")
		require.NotNil(t, resp)
		assert.True(t, strings.HasPrefix(resp.Text, fmt.Sprintf(messages.AddedCard, "кот", "cat")))
		assert.Equal(t, models.StateMainMenu, f.storedState())
	})
}

func TestAddCardRestartDropsPendingWord(t *testing.T) {
	run(t, nil, func(f *fixture) {
		require.NotNil(t, f.send(messages.MenuAddCard))
		f.send("кот")

		_, err := f.manager.Start(ctx, f.tx, &models.InputMessage{User: f.user}, models.StateAddingCard)
		require.NoError(t, err)
		progress, err := f.tx.GetAddCardProgress(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Nil(t, progress)
	})
}

func TestStartUnknownState(t *testing.T) {
	run(t, nil, func(f *fixture) {
		_, err := f.manager.Start(ctx, f.tx, &models.InputMessage{User: f.user}, models.StateNewUser)
		assert.Error(t, err)
	})
}
