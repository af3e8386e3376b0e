package bot

import (
	"strings"

	"github.com/m3rciful/foodbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/foodbot/core/telegram/helpers"
	"github.com/m3rciful/foodbot/core/telegram/keyboard"
	"github.com/m3rciful/foodbot/dialog"

	tele "gopkg.in/telebot.v4"
)

// commandHandler adapts a canonical command to a telebot handler.
func (a *App) commandHandler(cmd string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ev := dialog.Event{
			Kind:    dialog.KindCommand,
			Command: cmd,
			Sender:  senderName(c),
		}
		return a.deliver(c, ev)
	}
}

// selectHandler adapts an inline keyboard callback to a telebot handler.
func (a *App) selectHandler(key string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ev := dialog.Event{
			Kind:    dialog.KindSelect,
			Key:     key,
			Payload: callbacks.CallbackPayload(c),
		}
		return a.deliver(c, ev)
	}
}

// textFallback resolves the loose "menu" alias: any free text containing the
// word routes to the menu, everything else is ignored.
func (a *App) textFallback(c tele.Context) error {
	if strings.Contains(strings.ToLower(c.Text()), "menu") {
		return a.commandHandler(dialog.CmdMenu)(c)
	}
	return nil
}

// fsmAdapter exposes the dialogue controller to the message router.
type fsmAdapter struct {
	app *App
}

func (f fsmAdapter) InProgress(userID int64) bool {
	return f.app.controller.InProgress(userID)
}

// ManagerHandler feeds mid-dialogue updates (text or photo) to the controller.
func (f fsmAdapter) ManagerHandler(c tele.Context) error {
	return f.app.deliver(c, inputEvent(c))
}

func inputEvent(c tele.Context) dialog.Event {
	if msg := c.Message(); msg != nil && msg.Photo != nil {
		return dialog.Event{Kind: dialog.KindPhoto, PhotoID: msg.Photo.FileID}
	}
	return dialog.Event{Kind: dialog.KindText, Text: c.Text()}
}

// deliver runs the controller transition and sends every resulting reply.
func (a *App) deliver(c tele.Context, ev dialog.Event) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	for _, r := range a.controller.Handle(ctx, sender.ID, ev) {
		if err := sendReply(c, r); err != nil {
			return err
		}
	}
	return nil
}

func sendReply(c tele.Context, r dialog.Reply) error {
	if r.PhotoID != "" && r.Text == "" {
		return tghelpers.SendPhoto(c, r.PhotoID)
	}

	var markup *tele.ReplyMarkup
	switch {
	case len(r.Buttons) > 0:
		btns := make([]keyboard.InlineBtn, len(r.Buttons))
		for i, b := range r.Buttons {
			btns[i] = keyboard.InlineBtn{Text: b.Label, Unique: b.Key, Data: b.Data}
		}
		markup = keyboard.InlineButtons(btns)
	case r.RemoveKeyboard:
		markup = keyboard.RemoveKeyboard()
	}

	if r.Markdown {
		if markup != nil {
			return tghelpers.SendMD(c, r.Text, markup)
		}
		return tghelpers.SendMD(c, r.Text)
	}
	if markup != nil {
		return tghelpers.SendText(c, r.Text, &tele.SendOptions{ReplyMarkup: markup})
	}
	return tghelpers.SendText(c, r.Text)
}

func senderName(c tele.Context) string {
	u := c.Sender()
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = u.Username
	}
	return name
}
