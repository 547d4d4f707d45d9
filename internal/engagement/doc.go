// Package engagement holds the per-device like/dislike/view state machine for the reportage.
//
// A Machine keeps two independent slices of state. The device's own VoteState
// (vote and viewed flag) changes only through Like, Dislike and RegisterView and is
// persisted to a domain.LocalStore. The display Counters mirror the shared record and
// change through optimistic updates, echoed write results and pushed snapshots, the
// last of which wins.
package engagement
