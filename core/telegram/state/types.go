package state

// State identifies a finite-state-machine step used in conversations.
type State string

// StateIdle indicates there is no active dialogue with the user.
const StateIdle State = "idle"

// Action tags which catalog operation an in-progress dialogue performs.
type Action string

const (
	// ActionNone means no dialogue is pending.
	ActionNone Action = ""
	// ActionCreate collects a new record.
	ActionCreate Action = "create"
	// ActionUpdate overwrites an existing record.
	ActionUpdate Action = "update"
	// ActionDelete removes a record by name.
	ActionDelete Action = "delete"
	// ActionFind searches records by partial name.
	ActionFind Action = "find"
)

// Draft accumulates the fields collected during a create/update dialogue.
// Its values are only meaningful while the session is inside that dialogue.
type Draft struct {
	Name        string
	Ingredients string
	PhotoURL    string
	Rating      string
}

// Session stores conversation state and collected data for a user.
//
// Sessions live in process memory only: a restart drops every in-progress
// dialogue, and there is no expiry policy, so the map grows with the number
// of distinct users seen during the process lifetime.
type Session struct {
	State     State
	Action    Action
	Draft     Draft
	AdminMode bool
}

// Manager owns per-user sessions.
type Manager interface {
	Get(userID int64) Session
	SetState(userID int64, st State)
	GetState(userID int64) State
	SetAction(userID int64, action Action)
	GetAction(userID int64) Action
	UpdateDraft(userID int64, fn func(*Draft))
	GetDraft(userID int64) Draft
	SetAdmin(userID int64, admin bool)
	IsAdmin(userID int64) bool

	// Clear resets the whole session to its zero value, admin flag included.
	Clear(userID int64)
	// InProgress reports whether the user is inside a dialogue.
	InProgress(userID int64) bool
}
