package console

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/dialogue"
)

// LocalUserID is the identity of the terminal user.
const LocalUserID int64 = 1

// StateSource reports where a user's conversation stands.
type StateSource interface {
	StateOf(userID int64) dialogue.State
}

// Run reads lines from in and feeds them to router as events of the local
// user. While the conversation waits for a choice, a number matching a
// presented option becomes a choice event. Run returns when in is exhausted
// or ctx is done.
func Run(ctx context.Context, in io.Reader, router *dialogue.Router, states StateSource, p *Presenter) error {
	logger := config.GetLogger()
	scanner := bufio.NewScanner(in)

	if err := router.DispatchWait(dialogue.TextEvent(LocalUserID, dialogue.StartCommand)); err != nil {
		return err
	}
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ev := eventFor(line, states.StateOf(LocalUserID), p)
		logger.Debug().Str("event", ev.Kind.String()).Msg("Console input")
		if err := router.DispatchWait(ev); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func eventFor(line string, state dialogue.State, p *Presenter) dialogue.Event {
	if !state.AwaitsChoice() {
		return dialogue.TextEvent(LocalUserID, line)
	}
	if n, err := strconv.Atoi(line); err == nil {
		if token, ok := p.TokenFor(n); ok {
			return dialogue.ChoiceEvent(LocalUserID, token)
		}
	}
	return dialogue.TextEvent(LocalUserID, line)
}
