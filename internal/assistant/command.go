package assistant

import (
	"context"
	"errors"
	log "log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/arnav-verma200/jj-voice-assistant/internal/store"
)

// Command actions, also recorded in the history table.
const (
	ActionVolumeStart = "volume_start"
	ActionVolumeStop  = "volume_stop"
	ActionOpen        = "open"
	ActionSearch      = "search"
	ActionHelp        = "help"
	ActionUnknown     = "unknown"
)

const helpText = "I can open apps and websites, search the web, and control the volume with a pinch gesture"

// ErrUnknownCommand is returned when a command matches no action.
var ErrUnknownCommand = errors.New("unknown command")

// Result is the outcome of one dispatched command.
type Result struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Action   string `json:"action"`
	Argument string `json:"argument,omitempty"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// Dispatch parses a raw command, executes it, and records the outcome
// in the command history.
func (a *Assistant) Dispatch(ctx context.Context, text string) (Result, error) {
	action, arg := parse(text)
	log.Info("dispatching command", "text", text, "action", action, "argument", arg)

	var err error
	switch action {
	case ActionVolumeStart:
		err = a.StartVolumeControl()
	case ActionVolumeStop:
		err = a.StopVolumeControl()
	case ActionOpen:
		err = a.Open(ctx, arg)
	case ActionSearch:
		err = a.Search(arg)
	case ActionHelp:
		a.say(helpText)
	default:
		a.say("Sorry, I don't know that command")
		err = ErrUnknownCommand
	}

	res := Result{
		Text:     text,
		Action:   action,
		Argument: arg,
		OK:       err == nil,
	}
	if err != nil {
		res.Error = err.Error()
	}
	a.record(&res)
	if a.onCommand != nil {
		a.onCommand(res)
	}
	return res, err
}

// parse splits a raw command into an action and its argument. Prefix
// forms win over keyword forms so "open volume mixer" opens an app
// instead of starting volume control.
func parse(text string) (action, arg string) {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case t == "":
		return ActionUnknown, ""
	case t == "help" || t == "what can you do":
		return ActionHelp, ""
	case strings.HasPrefix(t, "search for "):
		return ActionSearch, strings.TrimSpace(strings.TrimPrefix(t, "search for "))
	case strings.HasPrefix(t, "search "):
		return ActionSearch, strings.TrimSpace(strings.TrimPrefix(t, "search "))
	case strings.HasPrefix(t, "google "):
		return ActionSearch, strings.TrimSpace(strings.TrimPrefix(t, "google "))
	case strings.HasPrefix(t, "open "):
		return ActionOpen, strings.TrimSpace(strings.TrimPrefix(t, "open "))
	case strings.HasPrefix(t, "launch "):
		return ActionOpen, strings.TrimSpace(strings.TrimPrefix(t, "launch "))
	case strings.HasPrefix(t, "go to "):
		return ActionOpen, strings.TrimSpace(strings.TrimPrefix(t, "go to "))
	case strings.Contains(t, "volume") && strings.Contains(t, "stop"):
		return ActionVolumeStop, ""
	case strings.Contains(t, "volume control") || strings.Contains(t, "gesture control"):
		return ActionVolumeStart, ""
	case strings.Contains(t, "volume") && strings.Contains(t, "start"):
		return ActionVolumeStart, ""
	default:
		return ActionUnknown, ""
	}
}

// searchURL builds the web search URL for a query.
func searchURL(query string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(query)
}

// record writes the result to the history, assigning its ID. History
// failures never fail the command itself.
func (a *Assistant) record(res *Result) {
	res.ID = uuid.NewString()
	if a.store == nil {
		return
	}

	status := store.CommandStatusOK
	if !res.OK {
		status = store.CommandStatusError
	}
	cmd := &store.Command{
		ID:       res.ID,
		Text:     res.Text,
		Action:   res.Action,
		Argument: res.Argument,
		Status:   status,
		Error:    res.Error,
	}
	if err := a.store.Commands().Create(cmd); err != nil {
		log.Warn("record command", "err", err)
	}
}
