package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/iocost-bot/pkg/domain/interfaces"
	"github.com/m-mizutani/iocost-bot/pkg/domain/model"
	"github.com/m-mizutani/iocost-bot/pkg/utils/async"
)

// WebhookHandler receives issue webhooks and feeds them into the ingestion
// pipeline
type WebhookHandler struct {
	secret   string
	ingestUC interfaces.IngestUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret string, ingestUC interfaces.IngestUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret:   secret,
		ingestUC: ingestUC,
	}
}

// Handle processes webhook requests. Issue and comment deliveries are
// converted to an EventContext and processed in the background; the pipeline
// itself serializes runs, so concurrent deliveries queue up. Unrelated event
// types are acknowledged and ignored: unlike one-shot mode, a server must
// not die because a new delivery type was enabled.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Hub-Signature-256")
	if !h.verifySignature(body, signature) {
		logger.Warn("Invalid webhook signature")
		writeError(ctx, w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(ctx, w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	ev := eventContextFrom(eventType, payload)
	if ev == nil {
		logger.Info("Ignoring unsupported event type",
			"event_type", eventType,
			"delivery", r.Header.Get("X-GitHub-Delivery"),
		)
		writeStatus(ctx, w, http.StatusOK, "ignored")
		return
	}

	logger = logger.With("delivery", r.Header.Get("X-GitHub-Delivery"))
	ctx = ctxlog.With(ctx, logger)

	async.Dispatch(ctx, func(ctx context.Context) error {
		return h.ingestUC.Ingest(ctx, ev)
	})

	writeStatus(ctx, w, http.StatusAccepted, "accepted")
}

// eventContextFrom converts a parsed webhook payload into the pipeline's
// event context. Returns nil for deliveries the bot does not handle.
func eventContextFrom(eventType string, payload any) *model.EventContext {
	switch e := payload.(type) {
	case *github.IssuesEvent:
		return &model.EventContext{
			EventName: eventType,
			Action:    model.EventAction(e.GetAction()),
			Issue:     issueFrom(e.GetIssue()),
		}

	case *github.IssueCommentEvent:
		return &model.EventContext{
			EventName: eventType,
			Action:    model.EventAction(e.GetAction()),
			Issue:     issueFrom(e.GetIssue()),
			Comment:   &model.Comment{Body: e.GetComment().Body},
		}

	default:
		return nil
	}
}

func issueFrom(issue *github.Issue) model.Issue {
	if issue == nil {
		return model.Issue{}
	}
	return model.Issue{
		Number: issue.GetNumber(),
		Locked: issue.GetLocked(),
		State:  issue.GetState(),
		Body:   issue.Body,
	}
}

// verifySignature verifies the webhook signature
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	const prefix = "sha256="
	if !strings.HasPrefix(signature, prefix) {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.TrimPrefix(signature, prefix)))
}

func writeStatus(ctx context.Context, w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": status}); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}
