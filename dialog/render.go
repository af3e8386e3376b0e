package dialog

import (
	"github.com/m3rciful/foodbot/core/telegram/format"
	"github.com/m3rciful/foodbot/foods"
)

// menuReply renders a selection keyboard with one button per record. The
// callback payload carries the record name, so a press resolves to a lookup
// regardless of how the catalog changed since rendering.
func menuReply(title string, items []foods.FoodItem) Reply {
	buttons := make([]Button, 0, len(items))
	for _, it := range items {
		buttons = append(buttons, Button{Label: it.Name, Key: CallbackFood, Data: it.Name})
	}
	return Reply{Text: title, Buttons: buttons}
}

// detailReplies renders a record detail view: the photo first (when present),
// then the formatted text block with a Back control.
func detailReplies(item foods.FoodItem) []Reply {
	var replies []Reply
	if item.PhotoURL != "" {
		replies = append(replies, Reply{PhotoID: item.PhotoURL})
	}
	replies = append(replies, Reply{
		Text:     detailText(item),
		Markdown: true,
		Buttons:  []Button{{Label: "Back", Key: CallbackBack}},
	})
	return replies
}

func detailText(item foods.FoodItem) string {
	return "Name: " + format.Bold(item.Name) +
		"\nIngredients: " + format.Bold(item.Ingredients) +
		"\nRating: " + format.Bold(item.Rating)
}
