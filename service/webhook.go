/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"net/http"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// Actions that change the pull request head and so warrant a gate run.
var gatedActions = map[string]bool{
	"opened":      true,
	"synchronize": true,
	"reopened":    true,
}

// Handler turns pull_request webhook deliveries into dispatched events.
type Handler struct {
	secret     []byte
	dispatcher *Dispatcher
}

// NewHandler constructs a webhook Handler. The secret must match the
// webhook's configured secret; an empty secret disables signature
// validation.
func NewHandler(secret []byte, dispatcher *Dispatcher) *Handler {
	return &Handler{secret: secret, dispatcher: dispatcher}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := clog.FromContext(ctx)

	payload, err := github.ValidatePayload(r, h.secret)
	if err != nil {
		log.Warnf("Rejecting delivery: %v", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		http.Error(w, "unparseable payload", http.StatusBadRequest)
		return
	}

	switch e := event.(type) {
	case *github.PullRequestEvent:
		h.handlePullRequest(w, r, e)
	case *github.PingEvent:
		w.WriteHeader(http.StatusOK)
	default:
		// Deliveries for event types we did not subscribe to are fine to ignore.
		w.WriteHeader(http.StatusOK)
	}
}

func (h *Handler) handlePullRequest(w http.ResponseWriter, r *http.Request, e *github.PullRequestEvent) {
	ctx := r.Context()
	log := clog.FromContext(ctx)

	if !gatedActions[e.GetAction()] {
		log.Debugf("Ignoring pull_request action %q", e.GetAction())
		w.WriteHeader(http.StatusOK)
		return
	}

	ev := Event{
		Owner:   e.GetRepo().GetOwner().GetLogin(),
		Repo:    e.GetRepo().GetName(),
		Number:  e.GetNumber(),
		Branch:  e.GetPullRequest().GetHead().GetRef(),
		HeadSHA: e.GetPullRequest().GetHead().GetSHA(),
		Actor:   e.GetSender().GetLogin(),
	}
	if ev.Owner == "" || ev.Repo == "" || ev.Branch == "" {
		http.Error(w, "incomplete pull_request payload", http.StatusBadRequest)
		return
	}

	if !h.dispatcher.Enqueue(ctx, ev) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
		return
	}

	log.Infof("Queued gate run for %s (actor %s)", ev, ev.Actor)
	w.WriteHeader(http.StatusAccepted)
}
