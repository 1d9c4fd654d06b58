package voice

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/Its-Zach/grandline/internal/storage"
	"github.com/Its-Zach/grandline/pkg/types"
)

// Dispatcher maps platform requests to reading operations. It is stateless
// given its inputs: reference lists are fetched from the store per request,
// and no state survives between requests.
type Dispatcher struct {
	store          storage.ReadingStore
	invocationName string
}

// NewDispatcher creates a Dispatcher backed by the given store. The
// invocation name only appears in launch and help utterances.
func NewDispatcher(store storage.ReadingStore, invocationName string) *Dispatcher {
	return &Dispatcher{store: store, invocationName: invocationName}
}

// HandleRequest runs one platform request to completion and returns the
// spoken result. Every failure mode produces a spoken outcome; storage
// errors are logged with detail and spoken as a generic apology.
func (d *Dispatcher) HandleRequest(ctx context.Context, req Request) Result {
	switch req.Type {
	case RequestTypeLaunch:
		return Result{Outcome: OutcomeSuccess, Response: ComposeLaunch(d.invocationName)}
	case RequestTypeSessionEnded:
		// The platform does not speak a response to a session-ended request.
		return Result{Outcome: OutcomeSuccess, Response: Response{ShouldEndSession: true}}
	case RequestTypeIntent:
		return d.handleIntent(ctx, req)
	default:
		return Result{Outcome: OutcomeInvalidInput, Response: ComposeFallback()}
	}
}

func (d *Dispatcher) handleIntent(ctx context.Context, req Request) Result {
	switch KindOf(req.Intent.Name) {
	case IntentQueryLatest:
		return d.queryLatest(ctx)
	case IntentSaveReading:
		return d.saveReading(ctx, req)
	case IntentUpdateLatest:
		return d.updateLatest(ctx, req)
	case IntentDeleteLatest:
		return d.deleteLatest(ctx)
	case IntentHelp:
		return Result{Outcome: OutcomeSuccess, Response: ComposeHelp(d.invocationName)}
	case IntentCancel:
		return Result{Outcome: OutcomeSuccess, Response: ComposeFarewell()}
	default:
		// Fallback and unrecognized intents get the same retry prompt.
		return Result{Outcome: OutcomeInvalidInput, Response: ComposeFallback()}
	}
}

// queryLatest renders the reading with the maximum ID.
func (d *Dispatcher) queryLatest(ctx context.Context) Result {
	latest, err := d.store.GetLatestReading(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return Result{Outcome: OutcomeNotFound, Response: ComposeNoReadings()}
	}
	if err != nil {
		log.Printf("voice: query-latest storage failure: %v", err)
		return Result{Outcome: OutcomeUpstreamFailure, Response: ComposeApology()}
	}
	return Result{Outcome: OutcomeSuccess, Response: ComposeLatest(latest)}
}

// saveReading resolves both name slots and inserts a new reading. Sensor
// value slots are optional and default to zero.
func (d *Dispatcher) saveReading(ctx context.Context, req Request) Result {
	island, character, failed := d.resolveNameSlots(ctx, req)
	if failed != nil {
		return *failed
	}

	ultrasonic, result := d.parseSensorSlot(req, SlotUltrasonicValue, "ultrasonic value")
	if result != nil {
		return *result
	}
	lidar, result := d.parseSensorSlot(req, SlotLidarValue, "lidar value")
	if result != nil {
		return *result
	}

	_, err := d.store.InsertReading(ctx, &types.Reading{
		Ultrasonic:  ultrasonic,
		Lidar:       lidar,
		IslandID:    island.ID,
		CharacterID: character.ID,
	})
	if err != nil {
		log.Printf("voice: save-reading storage failure: %v", err)
		return Result{Outcome: OutcomeUpstreamFailure, Response: ComposeApology()}
	}

	return Result{Outcome: OutcomeSuccess, Response: ComposeSaved(island.Name, character.Name)}
}

// updateLatest resolves both name slots, locates the latest reading, then
// re-tags it. Resolution runs before location so an unresolvable name never
// touches the store's mutation path.
func (d *Dispatcher) updateLatest(ctx context.Context, req Request) Result {
	island, character, failed := d.resolveNameSlots(ctx, req)
	if failed != nil {
		return *failed
	}

	latest, err := d.store.GetLatestReading(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return Result{Outcome: OutcomeNotFound, Response: ComposeNoReadings()}
	}
	if err != nil {
		log.Printf("voice: update-latest storage failure: %v", err)
		return Result{Outcome: OutcomeUpstreamFailure, Response: ComposeApology()}
	}

	// No lock or version check is taken on the located reading; a
	// concurrent insert can change what "latest" means between the two
	// calls. Accepted for a single-device, low-frequency feed.
	affected, err := d.store.UpdateReading(ctx, latest.ID, island.ID, character.ID)
	if err != nil {
		log.Printf("voice: update-latest storage failure: %v", err)
		return Result{Outcome: OutcomeUpstreamFailure, Response: ComposeApology()}
	}
	if affected == 0 {
		return Result{Outcome: OutcomeNotFound, Response: ComposeNoReadings()}
	}

	return Result{Outcome: OutcomeSuccess, Response: ComposeUpdated(island.Name, character.Name)}
}

// deleteLatest locates the latest reading and removes it.
func (d *Dispatcher) deleteLatest(ctx context.Context) Result {
	latest, err := d.store.GetLatestReading(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return Result{Outcome: OutcomeNotFound, Response: ComposeNoReadings()}
	}
	if err != nil {
		log.Printf("voice: delete-latest storage failure: %v", err)
		return Result{Outcome: OutcomeUpstreamFailure, Response: ComposeApology()}
	}

	affected, err := d.store.DeleteReading(ctx, latest.ID)
	if err != nil {
		log.Printf("voice: delete-latest storage failure: %v", err)
		return Result{Outcome: OutcomeUpstreamFailure, Response: ComposeApology()}
	}
	if affected == 0 {
		return Result{Outcome: OutcomeNotFound, Response: ComposeNoReadings()}
	}

	return Result{Outcome: OutcomeSuccess, Response: ComposeDeleted()}
}

// resolveNameSlots resolves the island and character name slots against the
// reference lists. On any failure it returns a non-nil terminal Result: an
// ambiguous outcome with a reprompt (optionally carrying a phonetic
// suggestion), or an apology when a reference list cannot be fetched.
func (d *Dispatcher) resolveNameSlots(ctx context.Context, req Request) (island, character types.NamedEntity, failed *Result) {
	islands, err := d.store.ListIslands(ctx)
	if err != nil {
		log.Printf("voice: failed to fetch island reference list: %v", err)
		r := Result{Outcome: OutcomeUpstreamFailure, Response: ComposeApology()}
		return island, character, &r
	}
	characters, err := d.store.ListCharacters(ctx)
	if err != nil {
		log.Printf("voice: failed to fetch character reference list: %v", err)
		r := Result{Outcome: OutcomeUpstreamFailure, Response: ComposeApology()}
		return island, character, &r
	}

	islandSpoken := req.SlotValue(SlotIslandName)
	island, ok := Resolve(islands, islandSpoken)
	if !ok {
		suggestion, _ := Suggest(islands, islandSpoken)
		r := Result{Outcome: OutcomeAmbiguous, Response: ComposeNoMatch("island", islandSpoken, suggestion)}
		return island, character, &r
	}

	characterSpoken := req.SlotValue(SlotCharacterName)
	character, ok = Resolve(characters, characterSpoken)
	if !ok {
		suggestion, _ := Suggest(characters, characterSpoken)
		r := Result{Outcome: OutcomeAmbiguous, Response: ComposeNoMatch("character", characterSpoken, suggestion)}
		return island, character, &r
	}

	return island, character, nil
}

// parseSensorSlot parses an optional numeric sensor slot. An absent slot
// defaults to zero; a present but unparsable or non-finite value is an
// invalid-input outcome.
func (d *Dispatcher) parseSensorSlot(req Request, slot, label string) (float64, *Result) {
	spoken := req.SlotValue(slot)
	if spoken == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(spoken, 64)
	if err != nil || !types.IsFinite(v) {
		r := Result{Outcome: OutcomeInvalidInput, Response: ComposeInvalidNumber(label, spoken)}
		return 0, &r
	}
	return v, nil
}
