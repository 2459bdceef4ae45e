// Package session contains the backend-session lifecycle manager and its
// pacing policy.
//
// The Manager owns the single live backend connection shared by every
// inbound caller. Each chat call passes the pacing gate (randomized
// minimum spacing plus a per-minute ceiling over a trailing 60-second
// ledger), may trigger a session rotation (request-count or age
// threshold), and then holds the connection exclusively until its
// response is fully drained. The Policy is pure decision logic over an
// injected random source so tests can assert exact bounds.
//
// State machine over the single session slot:
//
//	Disconnected -> Connecting -> Connected -> (Rotating -> Disconnected) -> Connecting -> ...
package session
