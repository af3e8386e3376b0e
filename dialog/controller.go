package dialog

import (
	"context"
	"errors"

	"log/slog"

	"github.com/m3rciful/foodbot/core/logger"
	"github.com/m3rciful/foodbot/core/telegram/format"
	"github.com/m3rciful/foodbot/core/telegram/state"
	"github.com/m3rciful/foodbot/foods"
)

const component = "dialog"

// User-facing messages.
const (
	msgNoFoods          = "No foods in database"
	msgChooseFood       = "Choose food"
	msgChooseAFood      = "Choose a food"
	msgInputName        = "Input name"
	msgInputIngredients = "Input ingredients"
	msgRating           = "Rating 1 to 10"
	msgSaved            = "Saved successfully."
	msgUpdated          = "Updated successfully."
	msgDeleted          = "Deleted successfully"
	msgDeleteNotFound   = "Food with this name was not found"
	msgUpdateNotFound   = "Food not found. Please check the name and try again."
	msgRefetchFailed    = "Food not found. Database ERROR"
	msgDeletePrompt     = "Enter name or type 'back' to cancel"
	msgUpdatePrompt     = "Input name of food to update"
	msgFindPrompt       = "Enter name or part of the name"
	msgNoMatches        = "No foods found with that name."
	msgNoPermission     = "You do not have permission to execute this command."
	msgAdminActivated   = "Admin mode activated. You can now use admin commands."
	msgUnavailable      = "Service temporarily unavailable. Please try again later."
)

const helpText = "All commands:\n" +
	"/menu - Get menu\n" +
	"/find_food - Find dish\n" +
	"/help - Get all commands\n"

// Store abstracts the persistence gateway the controller talks to.
type Store interface {
	List(ctx context.Context) ([]foods.FoodItem, error)
	GetByName(ctx context.Context, name string) (foods.FoodItem, error)
	SearchByName(ctx context.Context, fragment string) ([]foods.FoodItem, error)
	Insert(ctx context.Context, item foods.FoodItem) error
	UpdateByName(ctx context.Context, oldName string, item foods.FoodItem) error
	DeleteByName(ctx context.Context, name string) (bool, error)
}

// Controller drives the food catalog dialogues. Handle is a pure transition
// function over the session store: (session, event) -> (session', replies).
type Controller struct {
	store    Store
	sessions state.Manager
}

// NewController builds a Controller over the given store and session manager.
func NewController(store Store, sessions state.Manager) *Controller {
	return &Controller{store: store, sessions: sessions}
}

// InProgress reports whether the user has an active dialogue.
func (ct *Controller) InProgress(userID int64) bool {
	return ct.sessions.InProgress(userID)
}

// Handle processes one inbound event for the user and returns the replies to
// send, in order. It never returns an error: persistence failures become
// user-visible messages at this boundary.
func (ct *Controller) Handle(ctx context.Context, userID int64, ev Event) []Reply {
	switch ev.Kind {
	case KindCommand:
		return ct.handleCommand(ctx, userID, ev)
	case KindSelect:
		return ct.handleSelect(ctx, userID, ev)
	default:
		return ct.handleDialogue(ctx, userID, ev)
	}
}

func (ct *Controller) handleCommand(ctx context.Context, userID int64, ev Event) []Reply {
	switch ev.Command {
	case CmdPassAdmin:
		// No credential check and no dialogue interruption: the flag is
		// flipped in place, mirroring the catalog's known-weak admin gate.
		ct.sessions.SetAdmin(userID, true)
		logger.Warn(ctx, component, "admin.granted", slog.Int64("user_id", userID))
		return []Reply{{Text: msgAdminActivated}}

	case CmdStart:
		replies := ct.cancelPending(ctx, userID)
		return append(replies, Reply{
			Text:     "Hi : " + format.Bold(ev.Sender) + "!",
			Markdown: true,
		})

	case CmdHelp:
		replies := ct.cancelPending(ctx, userID)
		return append(replies, Reply{Text: helpText})

	case CmdMenu:
		replies := ct.cancelPending(ctx, userID)
		return append(replies, ct.menu(ctx)...)

	case CmdFindFood:
		replies := ct.cancelPending(ctx, userID)
		ct.sessions.SetAction(userID, state.ActionFind)
		ct.sessions.SetState(userID, StateAwaitingFindQuery)
		return append(replies, Reply{Text: msgFindPrompt, RemoveKeyboard: true})

	case CmdCreateFood:
		if !ct.sessions.IsAdmin(userID) {
			return []Reply{{Text: msgNoPermission}}
		}
		replies := ct.cancelPending(ctx, userID)
		ct.sessions.Clear(userID)
		ct.sessions.SetAction(userID, state.ActionCreate)
		ct.sessions.SetState(userID, StateAwaitingName)
		return append(replies, Reply{Text: msgInputName, RemoveKeyboard: true})

	case CmdUpdateFood:
		if !ct.sessions.IsAdmin(userID) {
			return []Reply{{Text: msgNoPermission}}
		}
		replies := ct.cancelPending(ctx, userID)
		ct.sessions.Clear(userID)
		ct.sessions.SetAction(userID, state.ActionUpdate)
		ct.sessions.SetState(userID, StateAwaitingUpdateTarget)
		return append(replies, Reply{Text: msgUpdatePrompt, RemoveKeyboard: true})

	case CmdDeleteFood:
		if !ct.sessions.IsAdmin(userID) {
			return []Reply{{Text: msgNoPermission}}
		}
		replies := ct.cancelPending(ctx, userID)
		ct.sessions.Clear(userID)
		ct.sessions.SetAction(userID, state.ActionDelete)
		ct.sessions.SetState(userID, StateAwaitingDeleteName)
		return append(replies, Reply{Text: msgDeletePrompt, RemoveKeyboard: true})
	}

	logger.Debug(ctx, component, "command.unknown", slog.String("command", logger.SanitizeLimit(ev.Command, 64)))
	return nil
}

func (ct *Controller) handleSelect(ctx context.Context, userID int64, ev Event) []Reply {
	switch ev.Key {
	case CallbackBack:
		replies := ct.cancelPending(ctx, userID)
		return append(replies, ct.menu(ctx)...)

	case CallbackFood:
		replies := ct.cancelPending(ctx, userID)
		item, err := ct.store.GetByName(ctx, ev.Payload)
		switch {
		case err == nil:
			return append(replies, detailReplies(item)...)
		case errors.Is(err, foods.ErrNotFound):
			return append(replies, Reply{Text: msgDeleteNotFound})
		default:
			return append(replies, Reply{Text: msgUnavailable})
		}
	}
	return nil
}

func (ct *Controller) handleDialogue(ctx context.Context, userID int64, ev Event) []Reply {
	switch ct.sessions.GetState(userID) {
	case StateAwaitingName:
		if ev.Kind != KindText {
			return []Reply{{Text: msgInputName}}
		}
		ct.sessions.UpdateDraft(userID, func(d *state.Draft) { d.Name = ev.Text })
		ct.sessions.SetState(userID, StateAwaitingIngredients)
		return []Reply{{Text: msgInputIngredients, RemoveKeyboard: true}}

	case StateAwaitingUpdateTarget:
		return ct.checkUpdateTarget(ctx, userID, ev)

	case StateAwaitingIngredients:
		if ev.Kind != KindText {
			return []Reply{{Text: msgInputIngredients}}
		}
		ct.sessions.UpdateDraft(userID, func(d *state.Draft) { d.Ingredients = ev.Text })
		ct.sessions.SetState(userID, StateAwaitingPhoto)
		name := ct.sessions.GetDraft(userID).Name
		return []Reply{{
			Text:           "Enter photo URL of " + format.Bold(name),
			Markdown:       true,
			RemoveKeyboard: true,
		}}

	case StateAwaitingPhoto:
		// Both a photo attachment (file ID) and a plain URL are accepted;
		// the column stores either opaquely.
		var ref string
		switch ev.Kind {
		case KindPhoto:
			ref = ev.PhotoID
		case KindText:
			ref = ev.Text
		}
		if ref == "" {
			name := ct.sessions.GetDraft(userID).Name
			return []Reply{{Text: "Enter photo URL of " + format.Bold(name), Markdown: true}}
		}
		ct.sessions.UpdateDraft(userID, func(d *state.Draft) { d.PhotoURL = ref })
		ct.sessions.SetState(userID, StateAwaitingRating)
		return []Reply{{Text: msgRating, RemoveKeyboard: true}}

	case StateAwaitingRating:
		if ev.Kind != KindText {
			return []Reply{{Text: msgRating}}
		}
		return ct.finishCreateUpdate(ctx, userID, ev.Text)

	case StateAwaitingDeleteName:
		if ev.Kind != KindText {
			return []Reply{{Text: msgDeletePrompt}}
		}
		return ct.processDelete(ctx, userID, ev.Text)

	case StateAwaitingFindQuery:
		if ev.Kind != KindText {
			return []Reply{{Text: msgFindPrompt}}
		}
		return ct.processFind(ctx, userID, ev.Text)
	}

	return nil
}

// checkUpdateTarget gates the update dialogue on an existing record. The
// matched name is stashed so the final write keys on it even though the
// remaining steps reuse the create form.
func (ct *Controller) checkUpdateTarget(ctx context.Context, userID int64, ev Event) []Reply {
	if ev.Kind != KindText {
		return []Reply{{Text: msgUpdatePrompt}}
	}
	name := ev.Text
	_, err := ct.store.GetByName(ctx, name)
	switch {
	case err == nil:
		ct.sessions.UpdateDraft(userID, func(d *state.Draft) { d.Name = name })
		ct.sessions.SetState(userID, StateAwaitingIngredients)
		return []Reply{{
			Text:           "Food '" + name + "' found. Input new ingredients:",
			RemoveKeyboard: true,
		}}
	case errors.Is(err, foods.ErrNotFound):
		ct.sessions.Clear(userID)
		return []Reply{{Text: msgUpdateNotFound}}
	default:
		ct.sessions.Clear(userID)
		return []Reply{{Text: msgUnavailable}}
	}
}

func (ct *Controller) finishCreateUpdate(ctx context.Context, userID int64, rating string) []Reply {
	ct.sessions.UpdateDraft(userID, func(d *state.Draft) { d.Rating = rating })
	draft := ct.sessions.GetDraft(userID)
	action := ct.sessions.GetAction(userID)
	ct.sessions.Clear(userID)

	item := foods.FoodItem{
		Name:        draft.Name,
		Ingredients: draft.Ingredients,
		PhotoURL:    draft.PhotoURL,
		Rating:      draft.Rating,
	}

	var replies []Reply
	switch action {
	case state.ActionCreate:
		if err := ct.store.Insert(ctx, item); err != nil {
			return []Reply{{Text: msgUnavailable}}
		}
		replies = append(replies, Reply{Text: msgSaved})
	case state.ActionUpdate:
		if err := ct.store.UpdateByName(ctx, draft.Name, item); err != nil {
			return []Reply{{Text: msgUnavailable}}
		}
		replies = append(replies, Reply{Text: msgUpdated})
	default:
		logger.Warn(ctx, component, "dialogue.action_lost",
			slog.Int64("user_id", userID),
			slog.String("action", string(action)),
		)
		return nil
	}

	saved, err := ct.store.GetByName(ctx, draft.Name)
	if err != nil {
		return append(replies, Reply{Text: msgRefetchFailed})
	}
	return append(replies, detailReplies(saved)...)
}

func (ct *Controller) processDelete(ctx context.Context, userID int64, name string) []Reply {
	ct.sessions.Clear(userID)

	// The cancel keyword wins over a record that happens to share its name.
	if name == cancelKeyword {
		return ct.menu(ctx)
	}

	existed, err := ct.store.DeleteByName(ctx, name)
	if err != nil {
		return []Reply{{Text: msgUnavailable}}
	}
	msg := msgDeleteNotFound
	if existed {
		msg = msgDeleted
	}
	replies := []Reply{{Text: msg, RemoveKeyboard: true}}
	return append(replies, ct.menu(ctx)...)
}

func (ct *Controller) processFind(ctx context.Context, userID int64, query string) []Reply {
	ct.sessions.Clear(userID)

	matches, err := ct.store.SearchByName(ctx, query)
	if err != nil {
		return []Reply{{Text: msgUnavailable}}
	}
	switch len(matches) {
	case 0:
		return []Reply{{Text: msgNoMatches}}
	case 1:
		return detailReplies(matches[0])
	default:
		return []Reply{menuReply(msgChooseAFood, matches)}
	}
}

// cancelPending aborts an in-progress action, announcing it to the user.
// Clearing the session also drops the admin flag, matching the reference
// lifecycle where admin mode does not outlive a dialogue.
func (ct *Controller) cancelPending(ctx context.Context, userID int64) []Reply {
	action := ct.sessions.GetAction(userID)
	if action == state.ActionNone {
		return nil
	}
	ct.sessions.Clear(userID)
	logger.Debug(ctx, component, "dialogue.canceled",
		slog.Int64("user_id", userID),
		slog.String("action", string(action)),
	)
	return []Reply{{
		Text:           "Action " + format.Bold(string(action)) + " canceled",
		Markdown:       true,
		RemoveKeyboard: true,
	}}
}

func (ct *Controller) menu(ctx context.Context) []Reply {
	items, err := ct.store.List(ctx)
	if err != nil {
		return []Reply{{Text: msgUnavailable}}
	}
	if len(items) == 0 {
		return []Reply{{Text: msgNoFoods, RemoveKeyboard: true}}
	}
	return []Reply{menuReply(msgChooseFood, items)}
}
