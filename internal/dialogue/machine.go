package dialogue

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/metrics"
	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/scope"
	"github.com/Belphemur/MediaFinder/internal/services"
	"github.com/Belphemur/MediaFinder/internal/social"
)

// Searcher is the catalog search the machine drives.
type Searcher interface {
	Search(ctx context.Context, kind models.MediaKind, name string, yearHint *int) ([]models.SearchResult, error)
}

// Extractor resolves a social URL into one artifact inside sc.
type Extractor interface {
	// Resolve classifies a normalised link and rejects hosts the extractor
	// does not serve.
	Resolve(normalized string) (social.Target, error)
	Extract(ctx context.Context, sc *scope.Scope, rawURL string) (*models.ExtractionResult, error)
}

// Reporter receives unexpected failures caught at the machine boundary.
type Reporter interface {
	Report(ctx context.Context, err error, tags map[string]string)
}

// Deps are the collaborators of a Machine.
type Deps struct {
	Store     *Store
	Catalog   Searcher
	Fetcher   services.MediaFetcher
	Extractor Extractor
	Reporter  Reporter // optional
	// ScratchDir is the parent of extraction scopes, the OS temp dir when empty.
	ScratchDir string
}

// Machine maps (session state, event) to side effects and the next state.
// Events of one user must be handled sequentially; Router guarantees that.
type Machine struct {
	deps Deps
}

// NewMachine creates a Machine. A nil Store gets a fresh one.
func NewMachine(deps Deps) *Machine {
	if deps.Store == nil {
		deps.Store = NewStore()
	}
	return &Machine{deps: deps}
}

// Store returns the session store of the machine.
func (m *Machine) Store() *Store {
	return m.deps.Store
}

// step is what a state handler decided.
type step int

const (
	stepStay step = iota
	stepTerminate
)

// Handle processes one event. Failures are translated into user notices here
// and never returned; a panic is reported as an internal error.
func (m *Machine) Handle(ctx context.Context, ev Event, p Presenter) {
	logger := config.GetLogger()
	sess := m.deps.Store.Get(ev.UserID)
	state := sess.State
	metrics.DialogueEventsTotal.WithLabelValues(state.String()).Inc()

	logger.Debug().
		Int64("user", ev.UserID).
		Str("state", state.String()).
		Str("event", ev.Kind.String()).
		Msg("Handling dialogue event")

	defer func() {
		if r := recover(); r != nil {
			err := &apperrors.ErrInternal{Op: "handle " + state.String(), Err: fmt.Errorf("panic: %v", r)}
			logger.Error().Err(err).Int64("user", ev.UserID).Bytes("stack", debug.Stack()).Msg("Recovered from panic in dialogue")
			m.fail(ctx, ev, state, err, p)
		}
		metrics.ActiveSessions.Set(float64(m.deps.Store.Len()))
	}()

	next, err := m.dispatch(ctx, sess, ev, p)
	if err != nil {
		m.fail(ctx, ev, state, err, p)
		return
	}
	if next == stepTerminate {
		m.deps.Store.Reset(ev.UserID)
	}
}

func (m *Machine) dispatch(ctx context.Context, sess *Session, ev Event, p Presenter) (step, error) {
	if ev.Kind == EventText && strings.EqualFold(strings.TrimSpace(ev.Payload), StartCommand) {
		return m.start(ctx, ev.UserID, p)
	}

	switch sess.State {
	case StateIdle:
		return m.idle(ctx, p)
	case StateAwaitingTypeChoice:
		return m.onTypeChoice(ctx, sess, ev, p)
	case StateAwaitingQueryName:
		return m.onQueryName(ctx, sess, ev, p)
	case StateAwaitingResultChoice:
		return m.onResultChoice(ctx, sess, ev, p)
	case StateAwaitingDeliveryPolicy:
		return m.onDeliveryPolicy(ctx, sess, ev, p)
	case StateAwaitingInstagramURL:
		return m.onInstagramURL(ctx, sess, ev, p)
	default:
		return stepTerminate, &apperrors.ErrInternal{Op: "dispatch", Err: fmt.Errorf("unknown state %d", sess.State)}
	}
}

func (m *Machine) start(ctx context.Context, userID int64, p Presenter) (step, error) {
	m.deps.Store.Start(userID)
	m.say(ctx, p.PresentChoices(ctx, "👋 What are you looking for?", typeChoices()))
	return stepStay, nil
}

func (m *Machine) idle(ctx context.Context, p Presenter) (step, error) {
	m.say(ctx, p.PresentText(ctx, "Send /start to begin a new search."))
	return stepStay, nil
}

func (m *Machine) onTypeChoice(ctx context.Context, sess *Session, ev Event, p Presenter) (step, error) {
	if ev.Kind == EventChoice && ev.Payload == TokenSocial {
		sess.State = StateAwaitingInstagramURL
		m.say(ctx, p.PresentText(ctx, "📷 Send me an Instagram post, reel or profile link (or @username).\nType cancel to stop."))
		return stepStay, nil
	}
	kind, ok := kindForToken(ev.Payload)
	if ev.Kind != EventChoice || !ok {
		m.say(ctx, p.PresentChoices(ctx, "Please pick one of the options.", typeChoices()))
		return stepStay, nil
	}

	sess.MediaKind = kind
	sess.State = StateAwaitingQueryName
	m.say(ctx, p.PresentText(ctx, fmt.Sprintf("✍️ Send me the name of the %s. You can add a year, e.g. Dune (2021).", kindNoun(kind))))
	return stepStay, nil
}

func (m *Machine) onQueryName(ctx context.Context, sess *Session, ev Event, p Presenter) (step, error) {
	name, yearHint := parseQuery(ev.Payload)
	if ev.Kind != EventText || name == "" {
		return stepStay, apperrors.NewValidationError("name", "a title is required")
	}

	sess.QueryName = name
	results, err := m.deps.Catalog.Search(ctx, sess.MediaKind, name, yearHint)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			m.say(ctx, p.PresentText(ctx, fmt.Sprintf("😕 No results found for %q.", name)))
			return stepTerminate, nil
		}
		return stepTerminate, err
	}
	if len(results) > models.MaxSearchResults {
		results = results[:models.MaxSearchResults]
	}

	sess.Results = results
	sess.State = StateAwaitingResultChoice
	m.say(ctx, p.PresentChoices(ctx, fmt.Sprintf("🔎 Results for %q:", name), resultChoices(results)))
	return stepStay, nil
}

func (m *Machine) onResultChoice(ctx context.Context, sess *Session, ev Event, p Presenter) (step, error) {
	if ev.Kind == EventChoice && ev.Payload == TokenCancel {
		m.say(ctx, p.PresentText(ctx, "❌ Cancelled."))
		return stepTerminate, nil
	}
	index, ok := parseResultToken(ev.Payload)
	if ev.Kind != EventChoice || !ok || index < 0 || index >= len(sess.Results) {
		return stepStay, apperrors.NewValidationError("selection", "pick one of the listed results")
	}

	selected := sess.Results[index].Select()
	sess.Selection = &selected
	sess.State = StateAwaitingDeliveryPolicy
	m.say(ctx, p.PresentChoices(ctx, fmt.Sprintf("%s %s: how many posters?", selected.MediaKind.Emoji(), selected.DisplayTitle), policyChoices()))
	return stepStay, nil
}

func (m *Machine) onDeliveryPolicy(ctx context.Context, sess *Session, ev Event, p Presenter) (step, error) {
	var policy models.DeliveryPolicy
	switch {
	case ev.Kind == EventChoice && ev.Payload == TokenPreview:
		policy.PosterLimit = models.PosterLimitPreview
	case ev.Kind == EventChoice && ev.Payload == TokenAll:
		policy.PosterLimit = models.PosterLimitAll
	case ev.Kind == EventChoice && ev.Payload == TokenCancel:
		m.say(ctx, p.PresentText(ctx, "❌ Cancelled."))
		return stepTerminate, nil
	default:
		return stepStay, apperrors.NewValidationError("policy", "pick preview or all")
	}
	if sess.Selection == nil {
		return stepTerminate, &apperrors.ErrInternal{Op: "deliver", Err: fmt.Errorf("no selection stored")}
	}

	if _, err := m.deps.Fetcher.Deliver(ctx, *sess.Selection, policy, p); err != nil {
		return stepTerminate, err
	}
	return stepTerminate, nil
}

// rePrompt repeats the question of the current state after a validation error.
func (m *Machine) rePrompt(ctx context.Context, sess *Session, err error, p Presenter) {
	switch sess.State {
	case StateAwaitingQueryName:
		m.say(ctx, p.PresentText(ctx, "✍️ Please send a title to search for."))
	case StateAwaitingResultChoice:
		m.say(ctx, p.PresentChoices(ctx, "⚠️ Invalid selection, please pick one of the results.", resultChoices(sess.Results)))
	case StateAwaitingDeliveryPolicy:
		m.say(ctx, p.PresentChoices(ctx, "⚠️ Please choose how many posters to send.", policyChoices()))
	case StateAwaitingInstagramURL:
		m.say(ctx, p.PresentText(ctx, "⚠️ That doesn't look like an Instagram link. Send a post, reel or profile URL, or type cancel."))
	default:
		m.say(ctx, p.PresentText(ctx, "⚠️ "+err.Error()))
	}
}

// fail translates err into a notice. Validation errors keep the session;
// every other kind ends it.
func (m *Machine) fail(ctx context.Context, ev Event, state State, err error, p Presenter) {
	logger := config.GetLogger()
	kind := apperrors.KindOf(err)
	metrics.DialogueErrorsTotal.WithLabelValues(kind.String()).Inc()

	sess := m.deps.Store.Get(ev.UserID)
	if kind == apperrors.KindValidation || (kind == apperrors.KindInvalidURL && sess.State == StateAwaitingInstagramURL) {
		logger.Debug().Err(err).Int64("user", ev.UserID).Str("state", state.String()).Msg("Rejected input")
		m.rePrompt(ctx, sess, err, p)
		return
	}

	if kind == apperrors.KindInternal {
		logger.Error().Err(err).Int64("user", ev.UserID).Str("state", state.String()).Msg("Unexpected dialogue failure")
		if m.deps.Reporter != nil {
			m.deps.Reporter.Report(ctx, err, map[string]string{"state": state.String(), "event": ev.Kind.String()})
		}
	} else {
		logger.Warn().Err(err).Int64("user", ev.UserID).Str("state", state.String()).Str("kind", kind.String()).Msg("Dialogue branch failed")
	}

	m.deps.Store.Reset(ev.UserID)
	m.say(ctx, p.PresentText(ctx, noticeFor(kind, err)))
}

// noticeFor renders the user-facing text of a terminal failure.
func noticeFor(kind apperrors.Kind, err error) string {
	switch kind {
	case apperrors.KindNotFound:
		return "😕 Nothing was found for that request."
	case apperrors.KindRateLimited:
		return "⏳ The service is rate limiting requests right now. Please try again in a few minutes."
	case apperrors.KindPrivateContent:
		return "🔒 This content is private and requires a login, so it can't be downloaded."
	case apperrors.KindProvider, apperrors.KindExtractionFailed:
		return "❌ Something went wrong: " + apperrors.Excerpt(err.Error(), 100)
	case apperrors.KindInvalidURL:
		return "⚠️ That link is not supported."
	default:
		return "⚠️ Sorry, something unexpected happened. Send /start to try again."
	}
}

// say logs a failed rendering call; it never interrupts the flow.
func (m *Machine) say(_ context.Context, err error) {
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Msg("Failed to present reply")
	}
}

func kindNoun(kind models.MediaKind) string {
	switch kind {
	case models.MediaKindMovie:
		return "movie"
	case models.MediaKindTV:
		return "TV series"
	default:
		return "title"
	}
}
