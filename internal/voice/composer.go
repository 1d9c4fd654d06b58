package voice

import (
	"fmt"
	"strconv"

	"github.com/Its-Zach/grandline/pkg/types"
)

// The composer is a pure mapping from operation outcome and resolved values
// to a spoken utterance. Names and numbers are interpolated verbatim from
// resolved data, never re-normalized.

const (
	exampleSavePhrase = "save a reading for Luffy on East Blue"
	apologyText       = "Sorry, I could not reach the reading log right now. Please try again in a moment."
	fallbackText      = "Sorry, I did not catch that. You can ask for the latest reading, or say help."
)

// ComposeLaunch greets the user when the skill is opened without an intent.
func ComposeLaunch(invocationName string) Response {
	text := fmt.Sprintf("Welcome to %s. You can ask for the latest reading, save a new one, or say help.", invocationName)
	return Response{
		OutputSpeech: text,
		Reprompt:     "Try asking: what is the latest reading?",
	}
}

// ComposeHelp explains what the skill can do.
func ComposeHelp(invocationName string) Response {
	text := fmt.Sprintf(
		"With %s you can ask for the latest reading, %s, update the latest reading, or delete it. What would you like to do?",
		invocationName, exampleSavePhrase)
	return Response{
		OutputSpeech: text,
		Reprompt:     "What would you like to do?",
	}
}

// ComposeFarewell ends the session.
func ComposeFarewell() Response {
	return Response{OutputSpeech: "Goodbye.", ShouldEndSession: true}
}

// ComposeFallback answers a request that matched no known intent.
func ComposeFallback() Response {
	return Response{OutputSpeech: fallbackText, Reprompt: "Say help to hear what I can do."}
}

// ComposeLatest renders the full latest reading.
func ComposeLatest(r *types.Reading) Response {
	text := fmt.Sprintf("The latest reading is from %s on %s: ultrasonic distance %s centimeters, lidar distance %s centimeters.",
		r.CharacterName, r.IslandName, speakNumber(r.Ultrasonic), speakNumber(r.Lidar))
	return Response{OutputSpeech: text, ShouldEndSession: true}
}

// ComposeNoReadings answers an operation that needed a latest reading when
// the log is empty.
func ComposeNoReadings() Response {
	return Response{
		OutputSpeech:     "There are no readings in the log yet, so there is nothing to act on.",
		ShouldEndSession: true,
	}
}

// ComposeSaved confirms a newly saved reading using the resolved display names.
func ComposeSaved(island, character string) Response {
	text := fmt.Sprintf("Saved a new reading for %s on %s.", character, island)
	return Response{OutputSpeech: text, ShouldEndSession: true}
}

// ComposeUpdated confirms that the latest reading was re-tagged.
func ComposeUpdated(island, character string) Response {
	text := fmt.Sprintf("Updated the latest reading to %s on %s.", character, island)
	return Response{OutputSpeech: text, ShouldEndSession: true}
}

// ComposeDeleted confirms that the latest reading was removed.
func ComposeDeleted() Response {
	return Response{OutputSpeech: "Deleted the latest reading.", ShouldEndSession: true}
}

// ComposeNoMatch prompts the user after a name failed to resolve. When a
// phonetic suggestion exists it is offered; otherwise an example phrase is.
func ComposeNoMatch(slotLabel, spoken, suggestion string) Response {
	var text string
	switch {
	case spoken == "":
		text = fmt.Sprintf("I did not hear a %s. For example, say: %s.", slotLabel, exampleSavePhrase)
	case suggestion != "":
		text = fmt.Sprintf("I do not know the %s %q. Did you mean %s?", slotLabel, spoken, suggestion)
	default:
		text = fmt.Sprintf("I do not know the %s %q. For example, say: %s.", slotLabel, spoken, exampleSavePhrase)
	}
	return Response{OutputSpeech: text, Reprompt: "Please try again."}
}

// ComposeInvalidNumber prompts the user after an unparsable sensor value.
func ComposeInvalidNumber(slotLabel, spoken string) Response {
	text := fmt.Sprintf("I could not understand %q as a %s. Please say a number.", spoken, slotLabel)
	return Response{OutputSpeech: text, Reprompt: "Please try again."}
}

// ComposeApology answers any storage failure with a generic apology; the
// detail stays in operator logs.
func ComposeApology() Response {
	return Response{OutputSpeech: apologyText, ShouldEndSession: true}
}

// speakNumber formats a sensor value for speech without trailing zeros.
func speakNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
