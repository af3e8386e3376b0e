// Package dialog implements the conversation state machine for the food
// catalog. The Controller is a pure transition function over transport-agnostic
// events: the bot layer converts Telegram updates into Events and renders the
// returned Replies, so the whole dialogue logic is testable without a live bot.
package dialog
