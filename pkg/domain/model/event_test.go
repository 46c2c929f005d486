package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/iocost-bot/pkg/domain/model"
	"github.com/m-mizutani/iocost-bot/pkg/domain/types"
)

func TestParseEventContext(t *testing.T) {
	t.Run("decodes a workflow context payload", func(t *testing.T) {
		raw := `{
			"event_name": "issues",
			"event": {
				"action": "opened",
				"issue": {
					"number": 42,
					"locked": false,
					"state": "open",
					"body": "here are my results"
				}
			}
		}`

		ev, err := model.ParseEventContext([]byte(raw))
		gt.NoError(t, err)
		gt.Equal(t, ev.EventName, "issues")
		gt.Equal(t, ev.Action, model.ActionOpened)
		gt.Equal(t, ev.Issue.Number, 42)
		gt.Equal(t, ev.Issue.State, "open")
		gt.V(t, ev.Comment).Nil()
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		_, err := model.ParseEventContext([]byte("{not json"))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrMalformedPayload))
	})

	t.Run("rejects payload without an issue", func(t *testing.T) {
		_, err := model.ParseEventContext([]byte(`{"event_name":"issues","event":{"action":"opened"}}`))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrMalformedPayload))
	})
}

func TestEventContextSkip(t *testing.T) {
	tests := []struct {
		name   string
		issue  model.Issue
		expect bool
	}{
		{
			name:   "open and unlocked issue is processed",
			issue:  model.Issue{State: "open"},
			expect: false,
		},
		{
			name:   "locked issue is skipped",
			issue:  model.Issue{State: "open", Locked: true},
			expect: true,
		},
		{
			name:   "closed issue is skipped",
			issue:  model.Issue{State: "closed"},
			expect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &model.EventContext{Issue: tt.issue}
			gt.Equal(t, ev.Skip(), tt.expect)
		})
	}
}

func TestEventContextResolveBody(t *testing.T) {
	issueBody := "issue text"
	commentBody := "comment text"

	tests := []struct {
		name      string
		ev        model.EventContext
		expect    string
		expectErr error
	}{
		{
			name: "opened issue uses the issue body",
			ev: model.EventContext{
				EventName: "issues",
				Action:    model.ActionOpened,
				Issue:     model.Issue{Body: &issueBody},
			},
			expect: issueBody,
		},
		{
			name: "created comment uses the comment body",
			ev: model.EventContext{
				EventName: "issue_comment",
				Action:    model.ActionCreated,
				Issue:     model.Issue{Body: &issueBody},
				Comment:   &model.Comment{Body: &commentBody},
			},
			expect: commentBody,
		},
		{
			name: "edited comment uses the comment body",
			ev: model.EventContext{
				EventName: "issue_comment",
				Action:    model.ActionEdited,
				Issue:     model.Issue{Body: &issueBody},
				Comment:   &model.Comment{Body: &commentBody},
			},
			expect: commentBody,
		},
		{
			name: "edited issue uses the issue body",
			ev: model.EventContext{
				EventName: "issues",
				Action:    model.ActionEdited,
				Issue:     model.Issue{Body: &issueBody},
			},
			expect: issueBody,
		},
		{
			name: "unknown action is fatal",
			ev: model.EventContext{
				EventName: "issues",
				Action:    "deleted",
				Issue:     model.Issue{Body: &issueBody},
			},
			expectErr: types.ErrUnhandledEvent,
		},
		{
			name: "missing issue body",
			ev: model.EventContext{
				EventName: "issues",
				Action:    model.ActionOpened,
			},
			expectErr: types.ErrMissingContent,
		},
		{
			name: "missing comment body",
			ev: model.EventContext{
				EventName: "issue_comment",
				Action:    model.ActionCreated,
				Issue:     model.Issue{Body: &issueBody},
			},
			expectErr: types.ErrMissingContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := tt.ev.ResolveBody()
			if tt.expectErr != nil {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, tt.expectErr))
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, body, tt.expect)
		})
	}
}
