package voice

// RequestType is the envelope-level request category delivered by the
// voice platform.
type RequestType string

const (
	RequestTypeLaunch       RequestType = "LaunchRequest"
	RequestTypeIntent       RequestType = "IntentRequest"
	RequestTypeSessionEnded RequestType = "SessionEndedRequest"
)

// Slot is a named value the platform extracted from the user's phrase.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Intent is a named category of user request plus its slots.
type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots"`
}

// Request is the platform request envelope consumed by the dispatcher.
type Request struct {
	Type   RequestType `json:"type"`
	Intent Intent      `json:"intent"`
}

// SlotValue returns the spoken value of the named slot, or "" when the slot
// is absent or empty.
func (r Request) SlotValue(name string) string {
	return r.Intent.Slots[name].Value
}

// Slot names recognized by the reading intents.
const (
	SlotIslandName      = "IslandName"
	SlotCharacterName   = "CharacterName"
	SlotUltrasonicValue = "UltrasonicValue"
	SlotLidarValue      = "LidarValue"
)

// IntentKind is the fixed set of operations the dispatcher knows. Intent
// names map to kinds through a single table; there is no per-handler
// predicate scan.
type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentQueryLatest
	IntentSaveReading
	IntentUpdateLatest
	IntentDeleteLatest
	IntentHelp
	IntentCancel
	IntentFallback
)

// String returns the operation name of the kind.
func (k IntentKind) String() string {
	switch k {
	case IntentQueryLatest:
		return "query-latest"
	case IntentSaveReading:
		return "save-reading"
	case IntentUpdateLatest:
		return "update-latest"
	case IntentDeleteLatest:
		return "delete-latest"
	case IntentHelp:
		return "help"
	case IntentCancel:
		return "cancel"
	case IntentFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// intentKinds maps platform intent names to dispatcher operations.
var intentKinds = map[string]IntentKind{
	"GetLatestReadingIntent": IntentQueryLatest,
	"SaveReadingIntent":      IntentSaveReading,
	"UpdateReadingIntent":    IntentUpdateLatest,
	"DeleteReadingIntent":    IntentDeleteLatest,
	"AMAZON.HelpIntent":      IntentHelp,
	"AMAZON.CancelIntent":    IntentCancel,
	"AMAZON.StopIntent":      IntentCancel,
	"AMAZON.FallbackIntent":  IntentFallback,
}

// KindOf returns the IntentKind for a platform intent name, or
// IntentUnknown when the name is not recognized.
func KindOf(name string) IntentKind {
	if kind, ok := intentKinds[name]; ok {
		return kind
	}
	return IntentUnknown
}

// Response is the spoken reply returned to the voice platform.
type Response struct {
	// OutputSpeech is the utterance spoken to the user.
	OutputSpeech string `json:"output_speech"`

	// Reprompt is spoken when the user stays silent after OutputSpeech.
	// Empty means no reprompt.
	Reprompt string `json:"reprompt,omitempty"`

	// ShouldEndSession tells the platform to close the session.
	ShouldEndSession bool `json:"should_end_session"`
}
