package senate

// Status is derived from the marker reactions on a bill message.
type Status int

const (
	StatusOpen Status = iota
	StatusPassed
	StatusFailed
	StatusVetoed
	StatusForcedThrough
	StatusVoided
	StatusWithdrawn
)

var statusNames = map[Status]string{
	StatusOpen:          "open",
	StatusPassed:        "passed",
	StatusFailed:        "failed",
	StatusVetoed:        "vetoed",
	StatusForcedThrough: "forced-through",
	StatusVoided:        "voided",
	StatusWithdrawn:     "withdrawn",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Concluded reports whether the bill is closed to further actions.
func (s Status) Concluded() bool { return s != StatusOpen }

// markerOrder fixes precedence when a message somehow carries several markers.
var markerOrder = []struct {
	emoji  string
	status Status
}{
	{MarkerWithdrawn, StatusWithdrawn},
	{MarkerVetoed, StatusVetoed},
	{MarkerForcedThrough, StatusForcedThrough},
	{MarkerPassed, StatusPassed},
	{MarkerFailed, StatusFailed},
	{MarkerVoided, StatusVoided},
}

// StatusOf derives a bill's status from its reactions. Markers only count
// when the bot is among the reactors, so members cannot close a bill by
// reacting with a marker emoji.
func StatusOf(reactions []Reaction) Status {
	for _, m := range markerOrder {
		if hasOwnReaction(reactions, m.emoji) {
			return m.status
		}
	}
	return StatusOpen
}

func hasOwnReaction(reactions []Reaction, emoji string) bool {
	for _, r := range reactions {
		if r.Me && r.Count > 0 && sameEmoji(r.Emoji, emoji) {
			return true
		}
	}
	return false
}

// Action is a terminal resolution, or its one reverse edge (unvoid).
type Action string

const (
	ActionPass         Action = "pass"
	ActionFail         Action = "fail"
	ActionVeto         Action = "veto"
	ActionForceThrough Action = "forcethrough"
	ActionVoid         Action = "void"
	ActionWithdraw     Action = "withdraw"
	ActionUnvoid       Action = "unvoid"
)

type actionRule struct {
	marker   string
	result   Status
	announce string
}

var actions = map[Action]actionRule{
	ActionPass:         {MarkerPassed, StatusPassed, "passes."},
	ActionFail:         {MarkerFailed, StatusFailed, "does not pass."},
	ActionVeto:         {MarkerVetoed, StatusVetoed, "is vetoed."},
	ActionForceThrough: {MarkerForcedThrough, StatusForcedThrough, "is forced through."},
	ActionVoid:         {MarkerVoided, StatusVoided, "is void."},
	ActionWithdraw:     {MarkerWithdrawn, StatusWithdrawn, "is withdrawn."},
	ActionUnvoid:       {MarkerVoided, StatusOpen, "is unvoided."},
}

// ParseAction maps a command name to an Action.
func ParseAction(name string) (Action, bool) {
	a := Action(name)
	_, ok := actions[a]
	return a, ok
}
