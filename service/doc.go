/*
Copyright 2026 The fmtgate Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package service runs the formatting gate as a long-lived webhook service.
// A Handler validates and filters pull_request webhook deliveries into
// Events, and a Dispatcher feeds them to a bounded pool of workers, each of
// which performs one isolated gate run against a leased clone.
//
// Gate failures are terminal for the event: the outcome is reported to the
// pull request's status checks and the event is not requeued.
package service
