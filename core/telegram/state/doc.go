// Package state provides an in-memory per-user session store for multi-step
// Telegram dialogues: the current FSM state, the pending catalog action, the
// collected draft fields, and the admin-mode flag.
package state
