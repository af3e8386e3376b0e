package dialog

import "github.com/m3rciful/foodbot/core/telegram/state"

// Canonical commands. Text aliases resolve to these in the bot layer.
const (
	CmdStart      = "/start"
	CmdMenu       = "/menu"
	CmdHelp       = "/help"
	CmdFindFood   = "/find_food"
	CmdCreateFood = "/create_food"
	CmdUpdateFood = "/update_food"
	CmdDeleteFood = "/delete_food"
	CmdPassAdmin  = "/pass_admin"
)

// Callback keys used by inline keyboards.
const (
	CallbackFood = "food"
	CallbackBack = "back"
)

// cancelKeyword aborts the delete dialogue when typed as the name.
const cancelKeyword = "back"

// Dialogue states. Idle is state.StateIdle.
const (
	StateAwaitingName         state.State = "awaiting_name"
	StateAwaitingIngredients  state.State = "awaiting_ingredients"
	StateAwaitingPhoto        state.State = "awaiting_photo"
	StateAwaitingRating       state.State = "awaiting_rating"
	StateAwaitingDeleteName   state.State = "awaiting_delete_name"
	StateAwaitingFindQuery    state.State = "awaiting_find_query"
	StateAwaitingUpdateTarget state.State = "awaiting_update_target"
)
