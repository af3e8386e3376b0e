package dialog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/foodbot/core/telegram/state"
	"github.com/m3rciful/foodbot/foods"
)

var errStoreDown = errors.New("connection refused")

type fakeStore struct {
	items []foods.FoodItem
	down  bool
}

func (f *fakeStore) List(context.Context) ([]foods.FoodItem, error) {
	if f.down {
		return nil, errStoreDown
	}
	out := make([]foods.FoodItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeStore) GetByName(_ context.Context, name string) (foods.FoodItem, error) {
	if f.down {
		return foods.FoodItem{}, errStoreDown
	}
	for _, it := range f.items {
		if it.Name == name {
			return it, nil
		}
	}
	return foods.FoodItem{}, foods.ErrNotFound
}

func (f *fakeStore) SearchByName(_ context.Context, fragment string) ([]foods.FoodItem, error) {
	if f.down {
		return nil, errStoreDown
	}
	var out []foods.FoodItem
	for _, it := range f.items {
		if strings.Contains(it.Name, fragment) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStore) Insert(_ context.Context, item foods.FoodItem) error {
	if f.down {
		return errStoreDown
	}
	f.items = append(f.items, item)
	return nil
}

func (f *fakeStore) UpdateByName(_ context.Context, oldName string, item foods.FoodItem) error {
	if f.down {
		return errStoreDown
	}
	for i := range f.items {
		if f.items[i].Name == oldName {
			id := f.items[i].ID
			f.items[i] = item
			f.items[i].ID = id
		}
	}
	return nil
}

func (f *fakeStore) DeleteByName(_ context.Context, name string) (bool, error) {
	if f.down {
		return false, errStoreDown
	}
	var kept []foods.FoodItem
	existed := false
	for _, it := range f.items {
		if it.Name == name {
			existed = true
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return existed, nil
}

func newTestController(items ...foods.FoodItem) (*Controller, *fakeStore, state.Manager) {
	store := &fakeStore{items: items}
	sessions := state.NewMemoryManager()
	return NewController(store, sessions), store, sessions
}

func command(cmd string) Event { return Event{Kind: KindCommand, Command: cmd} }
func text(t string) Event      { return Event{Kind: KindText, Text: t} }

func TestMenuEmptyCatalog(t *testing.T) {
	ct, _, _ := newTestController()
	replies := ct.Handle(context.Background(), 1, command(CmdMenu))

	require.Len(t, replies, 1)
	assert.Equal(t, "No foods in database", replies[0].Text)
	assert.Empty(t, replies[0].Buttons)
}

func TestMenuOneButtonPerRecord(t *testing.T) {
	ct, _, _ := newTestController(
		foods.FoodItem{Name: "Pizza"},
		foods.FoodItem{Name: "Ramen"},
	)
	replies := ct.Handle(context.Background(), 1, command(CmdMenu))

	require.Len(t, replies, 1)
	assert.Equal(t, "Choose food", replies[0].Text)
	require.Len(t, replies[0].Buttons, 2)
	assert.Equal(t, Button{Label: "Pizza", Key: CallbackFood, Data: "Pizza"}, replies[0].Buttons[0])
	assert.Equal(t, Button{Label: "Ramen", Key: CallbackFood, Data: "Ramen"}, replies[0].Buttons[1])
}

func TestMenuStoreFailureIsNotEmptyCatalog(t *testing.T) {
	ct, store, _ := newTestController()
	store.down = true
	replies := ct.Handle(context.Background(), 1, command(CmdMenu))

	require.Len(t, replies, 1)
	assert.NotEqual(t, "No foods in database", replies[0].Text)
	assert.Contains(t, replies[0].Text, "unavailable")
}

func TestSelectionShowsDetailWithBack(t *testing.T) {
	ct, _, _ := newTestController(foods.FoodItem{
		Name: "Pizza", Ingredients: "dough, cheese", PhotoURL: "file123", Rating: "9",
	})
	replies := ct.Handle(context.Background(), 1, Event{Kind: KindSelect, Key: CallbackFood, Payload: "Pizza"})

	require.Len(t, replies, 2)
	assert.Equal(t, "file123", replies[0].PhotoID)
	assert.Equal(t, "Name: *Pizza*\nIngredients: *dough, cheese*\nRating: *9*", replies[1].Text)
	require.Len(t, replies[1].Buttons, 1)
	assert.Equal(t, CallbackBack, replies[1].Buttons[0].Key)
}

func TestBackRerendersMenu(t *testing.T) {
	ct, _, _ := newTestController(foods.FoodItem{Name: "Pizza"})
	replies := ct.Handle(context.Background(), 1, Event{Kind: KindSelect, Key: CallbackBack})

	require.Len(t, replies, 1)
	assert.Equal(t, "Choose food", replies[0].Text)
}

func TestAdminGateOnWriteCommands(t *testing.T) {
	for _, cmd := range []string{CmdCreateFood, CmdUpdateFood, CmdDeleteFood} {
		t.Run(cmd, func(t *testing.T) {
			ct, _, sessions := newTestController()
			replies := ct.Handle(context.Background(), 1, command(cmd))

			require.Len(t, replies, 1)
			assert.Equal(t, "You do not have permission to execute this command.", replies[0].Text)
			assert.False(t, sessions.InProgress(1))
		})
	}
}

func TestPassAdminActivates(t *testing.T) {
	ct, _, sessions := newTestController()
	replies := ct.Handle(context.Background(), 1, command(CmdPassAdmin))

	require.Len(t, replies, 1)
	assert.Equal(t, "Admin mode activated. You can now use admin commands.", replies[0].Text)
	assert.True(t, sessions.IsAdmin(1))
}

func TestPassAdminKeepsDialogueRunning(t *testing.T) {
	ct, _, sessions := newTestController()
	ct.Handle(context.Background(), 1, command(CmdFindFood))
	require.True(t, sessions.InProgress(1))

	ct.Handle(context.Background(), 1, command(CmdPassAdmin))
	assert.True(t, sessions.InProgress(1), "pass_admin must not interrupt a dialogue")
	assert.True(t, sessions.IsAdmin(1))
}

func TestCreateDialogueRoundTrip(t *testing.T) {
	ct, store, sessions := newTestController()
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdPassAdmin))

	replies := ct.Handle(ctx, 1, command(CmdCreateFood))
	require.Len(t, replies, 1)
	assert.Equal(t, "Input name", replies[0].Text)

	replies = ct.Handle(ctx, 1, text("Pasta"))
	require.Len(t, replies, 1)
	assert.Equal(t, "Input ingredients", replies[0].Text)

	replies = ct.Handle(ctx, 1, text("flour, eggs"))
	require.Len(t, replies, 1)
	assert.Equal(t, "Enter photo URL of *Pasta*", replies[0].Text)

	replies = ct.Handle(ctx, 1, Event{Kind: KindPhoto, PhotoID: "tg-file-42"})
	require.Len(t, replies, 1)
	assert.Equal(t, "Rating 1 to 10", replies[0].Text)

	replies = ct.Handle(ctx, 1, text("8"))
	require.NotEmpty(t, replies)
	assert.Equal(t, "Saved successfully.", replies[0].Text)

	require.Len(t, store.items, 1)
	assert.Equal(t, foods.FoodItem{
		Name: "Pasta", Ingredients: "flour, eggs", PhotoURL: "tg-file-42", Rating: "8",
	}, store.items[0])
	assert.False(t, sessions.InProgress(1))

	// success replies include the re-fetched detail view
	last := replies[len(replies)-1]
	assert.Contains(t, last.Text, "Name: *Pasta*")
}

func TestCreateUnexpectedPhotoReprompts(t *testing.T) {
	ct, _, sessions := newTestController()
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdPassAdmin))
	ct.Handle(ctx, 1, command(CmdCreateFood))

	replies := ct.Handle(ctx, 1, Event{Kind: KindPhoto, PhotoID: "unexpected"})
	require.Len(t, replies, 1)
	assert.Equal(t, "Input name", replies[0].Text)
	assert.Equal(t, StateAwaitingName, sessions.GetState(1))
	assert.Empty(t, sessions.GetDraft(1).Name)
}

func TestCommandMidDialogueCancels(t *testing.T) {
	ct, _, sessions := newTestController()
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdPassAdmin))
	ct.Handle(ctx, 1, command(CmdCreateFood))
	ct.Handle(ctx, 1, text("Pasta"))
	require.Equal(t, "Pasta", sessions.GetDraft(1).Name)

	replies := ct.Handle(ctx, 1, command(CmdMenu))
	require.NotEmpty(t, replies)
	assert.Equal(t, "Action *create* canceled", replies[0].Text)
	assert.False(t, sessions.InProgress(1))
	assert.Empty(t, sessions.GetDraft(1).Name, "cancel must discard the draft")
}

func TestUpdateTargetGateAbortsOnMiss(t *testing.T) {
	ct, _, sessions := newTestController(foods.FoodItem{Name: "Pizza"})
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdPassAdmin))
	ct.Handle(ctx, 1, command(CmdUpdateFood))

	replies := ct.Handle(ctx, 1, text("Sushi"))
	require.Len(t, replies, 1)
	assert.Equal(t, "Food not found. Please check the name and try again.", replies[0].Text)
	assert.False(t, sessions.InProgress(1))
}

func TestUpdateKeysOnOriginalName(t *testing.T) {
	ct, store, _ := newTestController(foods.FoodItem{
		ID: 7, Name: "Pizza", Ingredients: "old", Rating: "3",
	})
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdPassAdmin))
	ct.Handle(ctx, 1, command(CmdUpdateFood))

	replies := ct.Handle(ctx, 1, text("Pizza"))
	require.Len(t, replies, 1)
	assert.Equal(t, "Food 'Pizza' found. Input new ingredients:", replies[0].Text)

	ct.Handle(ctx, 1, text("dough, cheese, basil"))
	ct.Handle(ctx, 1, text("https://example.com/p.jpg"))
	replies = ct.Handle(ctx, 1, text("9"))
	require.NotEmpty(t, replies)
	assert.Equal(t, "Updated successfully.", replies[0].Text)

	require.Len(t, store.items, 1)
	got := store.items[0]
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Pizza", got.Name)
	assert.Equal(t, "dough, cheese, basil", got.Ingredients)
	assert.Equal(t, "https://example.com/p.jpg", got.PhotoURL)
	assert.Equal(t, "9", got.Rating)
}

func TestDeleteExistingRecord(t *testing.T) {
	ct, store, sessions := newTestController(foods.FoodItem{Name: "Pizza"})
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdPassAdmin))

	replies := ct.Handle(ctx, 1, command(CmdDeleteFood))
	require.Len(t, replies, 1)
	assert.Equal(t, "Enter name or type 'back' to cancel", replies[0].Text)

	replies = ct.Handle(ctx, 1, text("Pizza"))
	require.NotEmpty(t, replies)
	assert.Equal(t, "Deleted successfully", replies[0].Text)
	assert.Empty(t, store.items)
	assert.False(t, sessions.InProgress(1))
	// menu is re-rendered after the result message
	assert.Equal(t, "No foods in database", replies[len(replies)-1].Text)
}

func TestDeleteAbsentLeavesCatalog(t *testing.T) {
	ct, store, _ := newTestController(foods.FoodItem{Name: "Pizza"})
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdPassAdmin))
	ct.Handle(ctx, 1, command(CmdDeleteFood))

	replies := ct.Handle(ctx, 1, text("Sushi"))
	require.NotEmpty(t, replies)
	assert.Equal(t, "Food with this name was not found", replies[0].Text)
	require.Len(t, store.items, 1)
}

func TestDeleteCancelKeywordWinsOverRecordName(t *testing.T) {
	ct, store, sessions := newTestController(foods.FoodItem{Name: "back"})
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdPassAdmin))
	ct.Handle(ctx, 1, command(CmdDeleteFood))

	replies := ct.Handle(ctx, 1, text("back"))
	require.NotEmpty(t, replies)
	assert.Equal(t, "Choose food", replies[0].Text, "cancel keyword must not delete")
	require.Len(t, store.items, 1)
	assert.False(t, sessions.InProgress(1))
}

func TestFindNoMatches(t *testing.T) {
	ct, _, sessions := newTestController(foods.FoodItem{Name: "Pizza"})
	ctx := context.Background()
	replies := ct.Handle(ctx, 1, command(CmdFindFood))
	require.Len(t, replies, 1)
	assert.Equal(t, "Enter name or part of the name", replies[0].Text)

	replies = ct.Handle(ctx, 1, text("zzz"))
	require.Len(t, replies, 1)
	assert.Equal(t, "No foods found with that name.", replies[0].Text)
	assert.False(t, sessions.InProgress(1))
}

func TestFindSingleMatchShowsDetail(t *testing.T) {
	ct, _, _ := newTestController(
		foods.FoodItem{Name: "apple pie", Ingredients: "apples", Rating: "7"},
		foods.FoodItem{Name: "Pizza"},
	)
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdFindFood))

	replies := ct.Handle(ctx, 1, text("app"))
	require.NotEmpty(t, replies)
	last := replies[len(replies)-1]
	assert.Contains(t, last.Text, "Name: *apple pie*")
	require.Len(t, last.Buttons, 1)
	assert.Equal(t, CallbackBack, last.Buttons[0].Key)
}

func TestFindMultipleMatchesShowsChoices(t *testing.T) {
	ct, _, _ := newTestController(
		foods.FoodItem{Name: "apple pie"},
		foods.FoodItem{Name: "apple juice"},
	)
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdFindFood))

	replies := ct.Handle(ctx, 1, text("apple"))
	require.Len(t, replies, 1)
	assert.Equal(t, "Choose a food", replies[0].Text)
	assert.Len(t, replies[0].Buttons, 2)
}

func TestStartGreetsAndCancels(t *testing.T) {
	ct, _, sessions := newTestController()
	ctx := context.Background()
	ct.Handle(ctx, 1, command(CmdFindFood))

	replies := ct.Handle(ctx, 1, Event{Kind: KindCommand, Command: CmdStart, Sender: "Alice"})
	require.Len(t, replies, 2)
	assert.Equal(t, "Action *find* canceled", replies[0].Text)
	assert.Equal(t, "Hi : *Alice*!", replies[1].Text)
	assert.False(t, sessions.InProgress(1))
}

func TestHelpListsVisibleCommands(t *testing.T) {
	ct, _, _ := newTestController()
	replies := ct.Handle(context.Background(), 1, command(CmdHelp))

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "/menu")
	assert.Contains(t, replies[0].Text, "/find_food")
	assert.NotContains(t, replies[0].Text, "/create_food")
}
