package domain

import "time"

// Intent is the canonical category a user utterance resolves to. The set is
// closed: the dispatcher switches over it exhaustively, so adding an intent
// is a compile-time change, not a runtime string lookup.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentGoodbye      Intent = "goodbye"
	IntentThanks       Intent = "thanks"
	IntentName         Intent = "name"
	IntentHelp         Intent = "help"
	IntentTime         Intent = "time"
	IntentDate         Intent = "date"
	IntentCalculator   Intent = "calculator"
	IntentNoteAdd      Intent = "note_add"
	IntentNoteList     Intent = "note_list"
	IntentNoteDelete   Intent = "note_delete"
	IntentReminderAdd  Intent = "reminder_add"
	IntentReminderList Intent = "reminder_list"
	IntentStudyAdvice  Intent = "study_advice"
	IntentStudyTimer   Intent = "study_timer"
	IntentMotivate     Intent = "motivate"
	IntentUnknown      Intent = "unknown"
)

var knownIntents = map[Intent]struct{}{
	IntentGreeting:     {},
	IntentGoodbye:      {},
	IntentThanks:       {},
	IntentName:         {},
	IntentHelp:         {},
	IntentTime:         {},
	IntentDate:         {},
	IntentCalculator:   {},
	IntentNoteAdd:      {},
	IntentNoteList:     {},
	IntentNoteDelete:   {},
	IntentReminderAdd:  {},
	IntentReminderList: {},
	IntentStudyAdvice:  {},
	IntentStudyTimer:   {},
	IntentMotivate:     {},
	IntentUnknown:      {},
}

// ParseIntent maps a catalog tag to its Intent. Unrecognized tags come back
// as-is with ok=false so the dispatcher can fall through to its generic reply.
func ParseIntent(tag string) (Intent, bool) {
	in := Intent(tag)
	_, ok := knownIntents[in]
	return in, ok
}

// IntentDefinition is one entry of the static command catalog: the canonical
// tag, the example utterances used for both training and rule matching, and
// the canned response pool.
type IntentDefinition struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

// ResolutionPath tags which resolver produced a Resolution. Confidences from
// the two paths live on different scales and must not be compared.
type ResolutionPath string

const (
	PathStatistical ResolutionPath = "statistical"
	PathRules       ResolutionPath = "rules"
)

// Resolution is the outcome of intent resolution for one utterance.
type Resolution struct {
	Intent     Intent         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Path       ResolutionPath `json:"path"`
}

// Note is a stored user note. IDs are 1-based and derived from the collection
// length at insert time; deletion is all-or-nothing, so they stay unique.
type Note struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Reminder is a stored reminder. Reminders are never fired or removed in the
// current scope; the list is read-only after creation.
type Reminder struct {
	ID      int    `json:"id"`
	Text    string `json:"text"`
	Time    string `json:"time"`
	Created string `json:"created"`
}

// TimeLayout is the datetime layout used in note/reminder records.
const TimeLayout = "2006-01-02 15:04:05"

// ConversationTurn is one resolved exchange. The core produces it; persisting
// the turn log is the host's responsibility.
type ConversationTurn struct {
	TurnID     string         `json:"turn_id"`
	SessionID  string         `json:"session_id"`
	TerminalID string         `json:"terminal_id,omitempty"`
	UserText   string         `json:"user_text"`
	Reply      string         `json:"reply"`
	Intent     Intent         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Path       ResolutionPath `json:"path"`
	CreatedAt  time.Time      `json:"created_at"`
}

// HTTP wire types

type ChatRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	TerminalID string `json:"terminal_id,omitempty"`
	Text       string `json:"text"`
}

type ChatResponse struct {
	SessionID  string         `json:"session_id"`
	Reply      string         `json:"reply"`
	Intent     Intent         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Path       ResolutionPath `json:"path"`
}

// Stats carries the sidebar counters. Turns is nil when no turn log is
// configured, so "history disabled" and "zero turns" stay distinguishable.
type Stats struct {
	Notes     int  `json:"notes"`
	Reminders int  `json:"reminders"`
	Turns     *int `json:"turns,omitempty"`
	// PathCounts breaks recorded turns down by resolution path. Only set
	// when the turn log is configured.
	PathCounts map[ResolutionPath]int `json:"path_counts,omitempty"`
}

// MQTT payloads

// UtteranceReport is what a voice terminal publishes after its local
// speech-to-text pass. An empty Text means "no speech recognized".
type UtteranceReport struct {
	TerminalID string `json:"terminal_id"`
	SessionID  string `json:"session_id,omitempty"`
	Text       string `json:"text"`
}

// SpeakPayload is the reply pushed back to a terminal's speech output.
type SpeakPayload struct {
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text"`
}
