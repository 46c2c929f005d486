package model

import (
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/iocost-bot/pkg/domain/types"
)

// EventAction classifies the action of the triggering issue event
type EventAction string

const (
	// ActionOpened is delivered when an issue is opened
	ActionOpened EventAction = "opened"
	// ActionEdited is delivered when an issue or a comment is edited
	ActionEdited EventAction = "edited"
	// ActionCreated is delivered when a comment is created
	ActionCreated EventAction = "created"
)

// EventNameIssueComment is the event name of comment deliveries. For "edited"
// actions it decides whether the issue body or the comment body changed.
const EventNameIssueComment = "issue_comment"

// Issue is the triggering issue as it appears in the event payload
type Issue struct {
	Number int     `json:"number"`
	Locked bool    `json:"locked"`
	State  string  `json:"state"`
	Body   *string `json:"body"`
}

// Comment is the triggering comment, present only for comment events
type Comment struct {
	Body *string `json:"body"`
}

// EventContext is the decoded repository event that triggered a run.
// It is created once per run and never mutated.
type EventContext struct {
	EventName string
	Action    EventAction
	Issue     Issue
	Comment   *Comment
}

// rawContext matches the GITHUB_CONTEXT JSON exposed by the workflow runner
type rawContext struct {
	EventName string `json:"event_name"`
	Event     struct {
		Action  string   `json:"action"`
		Issue   *Issue   `json:"issue"`
		Comment *Comment `json:"comment"`
	} `json:"event"`
}

// ParseEventContext decodes a serialized workflow event payload
func ParseEventContext(raw []byte) (*EventContext, error) {
	var rc rawContext
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, goerr.Wrap(types.ErrMalformedPayload, "decoding event payload", goerr.V("cause", err.Error()))
	}
	if rc.Event.Issue == nil {
		return nil, goerr.Wrap(types.ErrMalformedPayload, "event payload has no issue")
	}

	return &EventContext{
		EventName: rc.EventName,
		Action:    EventAction(rc.Event.Action),
		Issue:     *rc.Event.Issue,
		Comment:   rc.Event.Comment,
	}, nil
}

// Skip reports whether the run should end successfully without any output.
// Locked and non-open issues are deliberate no-ops, not errors.
func (x *EventContext) Skip() bool {
	return x.Issue.Locked || x.Issue.State != "open"
}

// ResolveBody returns the free-form text to scan for result links.
// "created" is always a comment and "opened" is always an issue; "edited"
// refers to the comment only when delivered as an issue_comment event.
func (x *EventContext) ResolveBody() (string, error) {
	switch x.Action {
	case ActionCreated:
		return x.commentBody()

	case ActionOpened:
		return x.issueBody()

	case ActionEdited:
		if x.EventName == EventNameIssueComment {
			return x.commentBody()
		}
		return x.issueBody()

	default:
		return "", goerr.Wrap(types.ErrUnhandledEvent, "no handler for event action",
			goerr.V("event_name", x.EventName),
			goerr.V("action", string(x.Action)),
		)
	}
}

func (x *EventContext) issueBody() (string, error) {
	if x.Issue.Body == nil {
		return "", goerr.Wrap(types.ErrMissingContent, "issue has no body")
	}
	return *x.Issue.Body, nil
}

func (x *EventContext) commentBody() (string, error) {
	if x.Comment == nil || x.Comment.Body == nil {
		return "", goerr.Wrap(types.ErrMissingContent, "comment has no body")
	}
	return *x.Comment.Body, nil
}
