package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/fappie/backend/internal/model/conversation"
	"github.com/fappie/backend/internal/model/mode"
)

func submitted(t *testing.T, s State, text string) State {
	t.Helper()
	next, err := Reduce(s, Submitted{Text: text})
	require.NoError(t, err)
	return next
}

func TestSubmitAppendsUserTurnAndMarksBusy(t *testing.T) {
	s := NewState(mode.Email)

	next := submitted(t, s, "Transcript van het overleg")

	assert.True(t, next.Busy)
	require.Len(t, next.Display, 1)
	assert.Equal(t, model.Turn{Role: model.RoleUser, Content: "Transcript van het overleg"}, next.Display[0])
	assert.Equal(t, next.Display, next.History)
	assert.Empty(t, s.Display, "input state must not change")
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	s := NewState(mode.Email)

	for _, text := range []string{"", "   ", "\n\t"} {
		next, err := Reduce(s, Submitted{Text: text})
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.Equal(t, s, next)
	}
}

func TestSubmitWhileBusyHasNoEffect(t *testing.T) {
	s := submitted(t, NewState(mode.Email), "eerste")

	next, err := Reduce(s, Submitted{Text: "tweede"})

	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, next.Display, 1)
	assert.Len(t, next.History, 1)
}

func TestStructuredSuccessUpdatesOutputAndHistory(t *testing.T) {
	s := submitted(t, NewState(mode.Email), "transcript")
	reply := model.Reply{Title: "Overleg", Body: "Hoi team", Chat: "Klopt de datum?", Structured: true}

	next, err := Reduce(s, Succeeded{ConversationID: s.ID, Reply: reply})
	require.NoError(t, err)

	assert.False(t, next.Busy)
	assert.True(t, next.Structured)
	require.NotNil(t, next.Output)
	assert.Equal(t, model.Output{Title: "Overleg", Body: "Hoi team"}, *next.Output)

	require.Len(t, next.Display, 2)
	assert.Equal(t, "Klopt de datum?", next.Display[1].Content)

	require.Len(t, next.History, 2)
	assert.Equal(t, model.RoleAssistant, next.History[1].Role)
	assert.JSONEq(t, `{"title":"Overleg","body":"Hoi team","chat":"Klopt de datum?"}`, next.History[1].Content)
}

func TestStructuredSuccessWithoutChatAddsNoVisibleTurn(t *testing.T) {
	s := submitted(t, NewState(mode.Email), "transcript")

	next, err := Reduce(s, Succeeded{ConversationID: s.ID, Reply: model.Reply{Title: "T", Body: "B", Structured: true}})
	require.NoError(t, err)

	assert.Len(t, next.Display, 1)
	assert.Len(t, next.History, 2)
	require.NotNil(t, next.Output)
	assert.Equal(t, "B", next.Output.Body)
}

func TestStructuredChatOnlyKeepsPreviousOutput(t *testing.T) {
	s := submitted(t, NewState(mode.Email), "transcript")
	s, err := Reduce(s, Succeeded{ConversationID: s.ID, Reply: model.Reply{Title: "T", Body: "B", Structured: true}})
	require.NoError(t, err)
	s = submitted(t, s, "wat vind je ervan?")

	next, err := Reduce(s, Succeeded{ConversationID: s.ID, Reply: model.Reply{Chat: "Prima zo.", Structured: true}})
	require.NoError(t, err)

	require.NotNil(t, next.Output)
	assert.Equal(t, model.Output{Title: "T", Body: "B"}, *next.Output)
	assert.Equal(t, "Prima zo.", next.Display[len(next.Display)-1].Content)
}

func TestStructuredWhitespaceBodyReplacesOutput(t *testing.T) {
	s := submitted(t, NewState(mode.Email), "transcript")
	s, err := Reduce(s, Succeeded{ConversationID: s.ID, Reply: model.Reply{Title: "T", Body: "B", Structured: true}})
	require.NoError(t, err)
	s = submitted(t, s, "maak het leeg")

	next, err := Reduce(s, Succeeded{ConversationID: s.ID, Reply: model.Reply{Body: " ", Structured: true}})
	require.NoError(t, err)

	require.NotNil(t, next.Output)
	assert.Equal(t, model.Output{Body: " "}, *next.Output)
}

func TestPlainSuccessAppendsTextVerbatim(t *testing.T) {
	s := submitted(t, NewState(mode.Calendar), "transcript")

	next, err := Reduce(s, Succeeded{ConversationID: s.ID, Reply: model.Reply{Text: "**DOEL:** afstemmen"}})
	require.NoError(t, err)

	assert.Nil(t, next.Output)
	assert.False(t, next.Structured)
	require.Len(t, next.Display, 2)
	assert.Equal(t, "**DOEL:** afstemmen", next.Display[1].Content)
	assert.Equal(t, next.Display, next.History)
	assert.Equal(t, "**DOEL:** afstemmen", CopySource(next))
}

func TestSuccessAddsOneUserAndAtMostOneAssistantTurn(t *testing.T) {
	replies := []model.Reply{
		{Text: "plain"},
		{Body: "B", Structured: true},
		{Body: "B", Chat: "C", Structured: true},
	}
	for _, reply := range replies {
		s := NewState(mode.Email)
		before := len(s.Display)

		s = submitted(t, s, "hallo")
		s, err := Reduce(s, Succeeded{ConversationID: s.ID, Reply: reply})
		require.NoError(t, err)

		grown := len(s.Display) - before
		assert.GreaterOrEqual(t, grown, 1)
		assert.LessOrEqual(t, grown, 2)
		assert.Equal(t, model.RoleUser, s.Display[before].Role)
	}
}

func TestFailureAppendsErrorTurnOnlyToDisplay(t *testing.T) {
	s := submitted(t, NewState(mode.Email), "transcript")

	next, err := Reduce(s, Failed{ConversationID: s.ID})
	require.NoError(t, err)

	assert.False(t, next.Busy)
	require.Len(t, next.Display, 2)
	assert.Equal(t, ErrorTurnText, next.Display[1].Content)
	assert.Len(t, next.History, 1)
	assert.Equal(t, "", CopySource(next))

	req := next.Request()
	assert.Len(t, req.Messages, 1)
}

func TestStaleResultIsIgnored(t *testing.T) {
	s := submitted(t, NewState(mode.Email), "transcript")
	oldID := s.ID

	s, err := Reduce(s, ModeSwitched{Mode: mode.Calendar})
	require.NoError(t, err)

	next, err := Reduce(s, Succeeded{ConversationID: oldID, Reply: model.Reply{Body: "B", Structured: true}})
	assert.ErrorIs(t, err, ErrStale)
	assert.Nil(t, next.Output)
	assert.Empty(t, next.Display)

	_, err = Reduce(s, Failed{ConversationID: oldID})
	assert.ErrorIs(t, err, ErrStale)
}

func TestResetClearsEverything(t *testing.T) {
	s := submitted(t, NewState(mode.Calendar), "transcript")
	s, _ = Reduce(s, Succeeded{ConversationID: s.ID, Reply: model.Reply{Body: "B", Structured: true}})

	next, err := Reduce(s, Reset{})
	require.NoError(t, err)

	assert.NotEqual(t, s.ID, next.ID)
	assert.Equal(t, mode.Calendar, next.Mode)
	assert.Empty(t, next.Display)
	assert.Empty(t, next.History)
	assert.Nil(t, next.Output)
	assert.False(t, next.Busy)
}

func TestModeSwitchResetsAndSetsMode(t *testing.T) {
	s := submitted(t, NewState(mode.Email), "transcript")

	next, err := Reduce(s, ModeSwitched{Mode: mode.Calendar})
	require.NoError(t, err)

	assert.Equal(t, mode.Calendar, next.Mode)
	assert.Empty(t, next.Display)
	assert.False(t, next.Busy)
}

func TestRequestCarriesModeAndHistory(t *testing.T) {
	s := submitted(t, NewState(mode.Calendar), "transcript")

	req := s.Request()

	assert.Equal(t, mode.Calendar, req.Mode)
	assert.Equal(t, s.History, req.Messages)
}

func TestCopySourceStructuredWithoutOutput(t *testing.T) {
	s := submitted(t, NewState(mode.Email), "transcript")
	s, err := Reduce(s, Succeeded{ConversationID: s.ID, Reply: model.Reply{Chat: "Welke datum?", Structured: true}})
	require.NoError(t, err)

	assert.Equal(t, "", CopySource(s))
}
