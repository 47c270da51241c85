package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/maitre/domain/ledger"
	"github.com/felixgeelhaar/maitre/domain/provider"
	"github.com/felixgeelhaar/maitre/domain/task"
	"github.com/felixgeelhaar/maitre/infrastructure/logging"
	"github.com/felixgeelhaar/maitre/infrastructure/resilience"
)

// runContext carries per-run collaborators through the step functions.
type runContext struct {
	Task   *task.Task
	Ledger *ledger.Ledger

	// Now anchors relative time expressions for this dispatch. Injected by
	// the engine entry points, never read from the ambient environment.
	Now time.Time
}

// stepFunc executes one step and names the next phase. Steps never let a
// collaborator error escape: they normalize everything into either a
// routed next phase or a failure-populated error path.
type stepFunc func(ctx context.Context, rc *runContext) task.Phase

// infer calls the language-model collaborator through the resilient
// executor, recording the call in the ledger and metrics.
func (e *Engine) infer(ctx context.Context, rc *runContext, instruction, schemaHint string) (json.RawMessage, error) {
	start := time.Now()
	raw, err := resilience.Call(ctx, e.executor, func(ctx context.Context) (json.RawMessage, error) {
		return e.inference.Infer(ctx, provider.InferRequest{
			Messages:    rc.Task.Conversation,
			Instruction: instruction,
			SchemaHint:  schemaHint,
			Now:         rc.Now,
		})
	})

	e.metrics.RecordProviderCall(ctx, "inference", err == nil, time.Since(start))
	if err != nil {
		rc.Ledger.RecordProviderError(rc.Task.Phase, "inference", err)
		return nil, err
	}
	rc.Ledger.RecordProviderCall(rc.Task.Phase, "inference", time.Since(start))
	return raw, nil
}

// stepClassifyIntent classifies the diner's intent from the conversation.
// Pure metadata enrichment: appends no conversation entry.
func (e *Engine) stepClassifyIntent(ctx context.Context, rc *runContext) task.Phase {
	t := rc.Task

	raw, err := e.infer(ctx, rc, "Classify the diner's intent from the conversation.", "intent")
	if err != nil {
		t.Fail(fmt.Sprintf("could not classify intent: %v", err))
		return task.PhaseError
	}

	var intent task.Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		t.Fail(fmt.Sprintf("malformed intent classification: %v", err))
		return task.PhaseError
	}
	if !intent.Kind.IsValid() {
		intent.Kind = task.IntentUnclear
	}

	t.Intent = &intent

	logging.Debug().
		Add(logging.TaskID(t.ID)).
		Add(logging.Str("intent", string(intent.Kind))).
		Msg("intent classified")

	return task.PhaseExtractParameters
}

// stepExtractParameters merges newly inferred fields into the reservation
// request. Additive merge: previously known fields are never regressed.
func (e *Engine) stepExtractParameters(ctx context.Context, rc *runContext) task.Phase {
	t := rc.Task

	instruction := fmt.Sprintf(
		"Extract reservation parameters from the conversation. Interpret relative dates against %s.",
		rc.Now.Format("2006-01-02 15:04"),
	)
	raw, err := e.infer(ctx, rc, instruction, "parameters")
	if err != nil {
		t.Fail(fmt.Sprintf("could not extract parameters: %v", err))
		return task.PhaseError
	}

	var extracted task.ReservationParams
	if err := json.Unmarshal(raw, &extracted); err != nil {
		t.Fail(fmt.Sprintf("malformed parameter extraction: %v", err))
		return task.PhaseError
	}

	t.Params.Merge(extracted)

	return task.PhaseCheckCompleteness
}

// stepCheckCompleteness is the single authoritative completeness gate. It
// is a pure predicate over the reservation parameters and never calls a
// collaborator.
func (e *Engine) stepCheckCompleteness(_ context.Context, rc *runContext) task.Phase {
	switch RouteAfterCompleteness(rc.Task) {
	case RouteError:
		return task.PhaseError
	case RouteAsk:
		return task.PhaseAskUser
	default:
		return task.PhaseSearch
	}
}

// stepAskUser generates one question covering every missing field and
// parks the task at the first suspend point.
func (e *Engine) stepAskUser(ctx context.Context, rc *runContext) task.Phase {
	t := rc.Task
	missing := t.Params.MissingCritical()

	instruction := fmt.Sprintf(
		"Ask the diner one natural question covering these missing fields: %s.",
		strings.Join(missing, ", "),
	)
	raw, err := e.infer(ctx, rc, instruction, "question")
	if err != nil {
		t.Fail(fmt.Sprintf("could not generate question: %v", err))
		return task.PhaseError
	}

	var out struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.Question == "" {
		t.Fail("malformed question from inference collaborator")
		return task.PhaseError
	}

	t.Append(task.RoleAssistant, out.Question)

	return task.PhaseWaitingForInfo
}

// stepSearch populates the candidate list, replacing any prior one. An
// empty result set is valid data, not an error.
func (e *Engine) stepSearch(ctx context.Context, rc *runContext) task.Phase {
	t := rc.Task

	start := time.Now()
	candidates, err := resilience.Call(ctx, e.executor, func(ctx context.Context) ([]task.Candidate, error) {
		return e.search.Search(ctx, t.Params)
	})
	e.metrics.RecordProviderCall(ctx, "search", err == nil, time.Since(start))

	if err != nil {
		rc.Ledger.RecordProviderError(t.Phase, "search", err)
		t.Fail(fmt.Sprintf("restaurant search failed: %v", err))
		return task.PhaseError
	}
	rc.Ledger.RecordProviderCall(t.Phase, "search", time.Since(start))

	t.Candidates = candidates
	t.Shortlist = nil
	t.Selection = nil

	logging.Info().
		Add(logging.TaskID(t.ID)).
		Add(logging.Candidates(len(candidates))).
		Msg("search completed")

	return task.PhaseCheckAvailability
}

// stepCheckAvailability queries availability for every candidate
// independently. A failure for one candidate marks it unavailable-unknown
// and never aborts the others. The fan-out runs in parallel; each goroutine
// writes only its own candidate slot, so no interleaved mutation is
// observable outside the step.
func (e *Engine) stepCheckAvailability(ctx context.Context, rc *runContext) task.Phase {
	t := rc.Task
	params := t.Params

	var wg sync.WaitGroup
	for i := range t.Candidates {
		wg.Add(1)
		go func(c *task.Candidate) {
			defer wg.Done()

			query := provider.AvailabilityQuery{
				CandidateID: c.ID,
				Name:        c.Name,
				Website:     c.Website,
				Rating:      c.Rating,
				ReviewCount: c.ReviewCount,
			}
			if params.Date != nil {
				query.Date = *params.Date
			}
			if params.Time != nil {
				query.Time = *params.Time
			}
			if params.PartySize != nil {
				query.PartySize = *params.PartySize
			}

			ans, err := resilience.Call(ctx, e.executor, func(ctx context.Context) (provider.Availability, error) {
				return e.availability.CheckAvailability(ctx, query)
			})
			if err != nil {
				// Unavailable-unknown: keep the candidate, mark the
				// channel closed and availability unknown.
				c.HasChannel = false
				c.Available = nil
				return
			}

			c.HasChannel = ans.HasChannel
			available := ans.Available
			c.Available = &available
			c.AlternateSlots = ans.AlternateSlots
		}(&t.Candidates[i])
	}
	wg.Wait()

	rc.Ledger.RecordProviderCall(t.Phase, "availability", 0)

	return task.PhaseRank
}

// rankedItem is one entry in the collaborator's ranking response.
type rankedItem struct {
	ID        string  `json:"id"`
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// stepRank asks the inference collaborator for a ranked shortlist. If the
// response cannot be matched back to known candidates, it falls back to a
// deterministic rule: the first three candidates in original order, score
// absent.
func (e *Engine) stepRank(ctx context.Context, rc *runContext) task.Phase {
	t := rc.Task

	if len(t.Candidates) == 0 {
		t.Fail("no restaurants found matching the request")
		return task.PhaseError
	}

	t.Shortlist = e.rankShortlist(ctx, rc)

	return task.PhasePresentOptions
}

// rankShortlist produces the shortlist, falling back deterministically.
func (e *Engine) rankShortlist(ctx context.Context, rc *runContext) []task.Candidate {
	t := rc.Task

	payload, err := json.Marshal(struct {
		Params     task.ReservationParams `json:"params"`
		Candidates []task.Candidate       `json:"candidates"`
	}{t.Params, t.Candidates})
	if err != nil {
		return firstN(t.Candidates, e.shortlistSize)
	}

	instruction := fmt.Sprintf(
		"Rank these restaurant candidates for the request and return the top %d: %s",
		e.shortlistSize, payload,
	)
	raw, inferErr := e.infer(ctx, rc, instruction, "ranking")
	if inferErr != nil {
		return firstN(t.Candidates, e.shortlistSize)
	}

	var out struct {
		Top []rankedItem `json:"top"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || len(out.Top) == 0 {
		return firstN(t.Candidates, e.shortlistSize)
	}
	if len(out.Top) > e.shortlistSize {
		out.Top = out.Top[:e.shortlistSize]
	}

	shortlist := make([]task.Candidate, 0, len(out.Top))
	for _, item := range out.Top {
		idx := indexOfCandidate(t.Candidates, item.ID)
		if idx < 0 {
			// Unknown identifier invalidates the whole ranking.
			return firstN(t.Candidates, e.shortlistSize)
		}
		score := item.Score
		t.Candidates[idx].Score = &score
		t.Candidates[idx].ScoreRationale = item.Rationale
		shortlist = append(shortlist, t.Candidates[idx])
	}

	return shortlist
}

func firstN(candidates []task.Candidate, n int) []task.Candidate {
	if len(candidates) < n {
		n = len(candidates)
	}
	out := make([]task.Candidate, n)
	copy(out, candidates[:n])
	return out
}

func indexOfCandidate(candidates []task.Candidate, id string) int {
	for i, c := range candidates {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// stepPresentOptions formats the shortlist into one message and parks the
// task at the second suspend point. Formatting is deterministic; no
// collaborator is involved.
func (e *Engine) stepPresentOptions(_ context.Context, rc *runContext) task.Phase {
	t := rc.Task

	var b strings.Builder
	b.WriteString("Here are the best matches I found:\n\n")
	for i, c := range t.Shortlist {
		fmt.Fprintf(&b, "%d. %s", i+1, c.Name)
		if c.Rating > 0 {
			fmt.Fprintf(&b, " (%.1f stars)", c.Rating)
		}
		if c.Address != "" {
			fmt.Fprintf(&b, " - %s", c.Address)
		}
		b.WriteString("\n")
		if c.ScoreRationale != "" {
			fmt.Fprintf(&b, "   %s\n", c.ScoreRationale)
		}
	}
	fmt.Fprintf(&b, "\nWhich one would you like? (reply with 1-%d or the name)", len(t.Shortlist))

	t.Append(task.RoleAssistant, b.String())

	return task.PhaseWaitingForSelection
}

// stepBook attempts the reservation on the primary channel. A candidate
// without a primary channel short-circuits straight to the voice fallback
// without attempting the call.
func (e *Engine) stepBook(ctx context.Context, rc *runContext) task.Phase {
	t := rc.Task

	if t.Selection == nil {
		t.Fail("no restaurant selected")
		return task.PhaseError
	}
	sel := t.Selection

	if !sel.HasChannel {
		t.BookingOutcome = task.OutcomePrimaryFailed
		rc.Ledger.RecordEscalation("candidate has no primary booking channel")
		e.metrics.RecordEscalation(ctx, sel.Name)
		return e.phaseAfterBooking(t)
	}

	req := provider.BookingRequest{
		CandidateID:   sel.ID,
		Venue:         sel.Name,
		CustomerName:  e.customerName,
		CustomerPhone: e.customerPhone,
	}
	if t.Params.Date != nil {
		req.Date = *t.Params.Date
	}
	if t.Params.Time != nil {
		req.Time = *t.Params.Time
	}
	if t.Params.PartySize != nil {
		req.PartySize = *t.Params.PartySize
	}

	start := time.Now()
	result, err := resilience.CallOnce(ctx, e.executor, func(ctx context.Context) (provider.BookingResult, error) {
		return e.booking.Book(ctx, req)
	})
	e.metrics.RecordProviderCall(ctx, "booking", err == nil, time.Since(start))

	switch {
	case err != nil:
		// Transport failure is treated like a declined booking: escalate,
		// never silently retry.
		rc.Ledger.RecordProviderError(t.Phase, "booking", err)
		t.BookingOutcome = task.OutcomePrimaryFailed
		rc.Ledger.RecordEscalation(fmt.Sprintf("primary booking error: %v", err))
		e.metrics.RecordEscalation(ctx, sel.Name)

	case !result.Success:
		rc.Ledger.RecordProviderCall(t.Phase, "booking", time.Since(start))
		t.BookingOutcome = task.OutcomePrimaryFailed
		rc.Ledger.RecordEscalation("primary booking declined: " + result.Message)
		e.metrics.RecordEscalation(ctx, sel.Name)

	default:
		rc.Ledger.RecordProviderCall(t.Phase, "booking", time.Since(start))
		t.BookingOutcome = task.OutcomePrimarySucceeded
		t.Confirmation = e.confirmationFor(t, sel, task.ChannelPrimary, result.ReferenceID)
		rc.Ledger.RecordBookingOutcome(t.Phase, t.BookingOutcome, sel.Name, result.ReferenceID)
	}

	return e.phaseAfterBooking(t)
}

// phaseAfterBooking maps the typed booking route onto a phase.
func (e *Engine) phaseAfterBooking(t *task.Task) task.Phase {
	switch RouteAfterBooking(t) {
	case RouteFinalize:
		return task.PhaseFinalize
	case RouteFallback:
		return task.PhaseFallbackVoice
	default:
		if t.Failure == "" {
			t.Fail(fmt.Sprintf("unexpected booking outcome %q", t.BookingOutcome))
		}
		return task.PhaseError
	}
}

// stepFallbackVoice places a reservation call to the venue. The diner is
// told escalation is happening before the call goes out. This is the
// single allowed escalation hop.
func (e *Engine) stepFallbackVoice(ctx context.Context, rc *runContext) task.Phase {
	t := rc.Task
	sel := t.Selection

	if sel == nil {
		t.Fail("no restaurant selected for voice fallback")
		return task.PhaseError
	}

	t.Append(task.RoleAssistant, fmt.Sprintf(
		"I couldn't complete the booking online, so I'm calling %s now to reserve your table.",
		sel.Name,
	))

	req := provider.VoiceRequest{
		Venue: sel.Name,
		Phone: sel.Phone,
	}
	if t.Params.Date != nil {
		req.Date = *t.Params.Date
	}
	if t.Params.Time != nil {
		req.Time = *t.Params.Time
	}
	if t.Params.PartySize != nil {
		req.PartySize = *t.Params.PartySize
	}

	start := time.Now()
	result, err := resilience.CallOnce(ctx, e.executor, func(ctx context.Context) (provider.VoiceResult, error) {
		return e.voice.CallToReserve(ctx, req)
	})
	e.metrics.RecordProviderCall(ctx, "voice", err == nil, time.Since(start))

	if err != nil {
		rc.Ledger.RecordProviderError(t.Phase, "voice", err)
		t.BookingOutcome = task.OutcomeFallbackFailed
		t.Fail(fmt.Sprintf("voice reservation failed: %v", err))
		rc.Ledger.RecordBookingOutcome(t.Phase, t.BookingOutcome, sel.Name, "")
		return e.phaseAfterVoice(t)
	}

	rc.Ledger.RecordProviderCall(t.Phase, "voice", time.Since(start))
	t.CallTranscript = result.Transcript

	if result.Success && result.Confirmed {
		t.BookingOutcome = task.OutcomeFallbackSucceeded
		t.Confirmation = e.confirmationFor(t, sel, task.ChannelVoice, "")
	} else {
		t.BookingOutcome = task.OutcomeFallbackFailed
		reason := result.Message
		if reason == "" {
			reason = "the restaurant did not confirm the reservation by phone"
		}
		t.Fail(reason)
	}

	rc.Ledger.RecordBookingOutcome(t.Phase, t.BookingOutcome, sel.Name, "")

	return e.phaseAfterVoice(t)
}

// phaseAfterVoice maps the typed voice route onto a phase.
func (e *Engine) phaseAfterVoice(t *task.Task) task.Phase {
	if RouteAfterVoice(t) == RouteVoiceFinalize {
		return task.PhaseFinalize
	}
	return task.PhaseError
}

// confirmationFor builds the booking confirmation from the task and the
// selected candidate.
func (e *Engine) confirmationFor(t *task.Task, sel *task.Candidate, channel task.Channel, reference string) *task.Confirmation {
	conf := &task.Confirmation{
		Venue:     sel.Name,
		Contact:   sel.Phone,
		Channel:   channel,
		Reference: reference,
	}
	if t.Params.Date != nil {
		conf.Date = *t.Params.Date
	}
	if t.Params.Time != nil {
		conf.Time = *t.Params.Time
	}
	if t.Params.PartySize != nil {
		conf.PartySize = *t.Params.PartySize
	}
	return conf
}

// stepFinalize composes the success message. A calendar provider, if
// configured, records the event; calendar failures are logged and never
// fail the task.
func (e *Engine) stepFinalize(ctx context.Context, rc *runContext) task.Phase {
	t := rc.Task
	conf := t.Confirmation

	var b strings.Builder
	fmt.Fprintf(&b, "Your table is booked at %s", conf.Venue)
	if conf.Date != "" {
		fmt.Fprintf(&b, " on %s", conf.Date)
	}
	if conf.Time != "" {
		fmt.Fprintf(&b, " at %s", conf.Time)
	}
	if conf.PartySize > 0 {
		fmt.Fprintf(&b, " for %d", conf.PartySize)
	}
	b.WriteString(".")
	if conf.Channel == task.ChannelVoice {
		b.WriteString(" I confirmed it by phone with the restaurant.")
	}
	if conf.Reference != "" {
		fmt.Fprintf(&b, " Your reference is %s.", conf.Reference)
	}

	t.Append(task.RoleAssistant, b.String())

	if e.calendar != nil {
		if eventID, err := e.calendar.CreateEvent(ctx, *conf); err != nil {
			logging.Warn().
				Add(logging.TaskID(t.ID)).
				Add(logging.ErrorField(err)).
				Msg("calendar event creation failed")
		} else {
			logging.Debug().
				Add(logging.TaskID(t.ID)).
				Add(logging.Str("event_id", eventID)).
				Msg("calendar event created")
		}
	}

	return task.PhaseCompleted
}

// stepError composes the failure message. Every terminal error produces
// exactly one assistant message before completion; there is no silent
// termination.
func (e *Engine) stepError(_ context.Context, rc *runContext) task.Phase {
	t := rc.Task

	reason := t.Failure
	if reason == "" {
		reason = "something went wrong"
	}

	t.Append(task.RoleAssistant, fmt.Sprintf(
		"I'm sorry, I couldn't complete your reservation: %s", reason,
	))

	return task.PhaseCompleted
}
