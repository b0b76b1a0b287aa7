package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/arnav/rapidreach/internal/types"
)

// textCap limits how much of each long-form field is persisted.
const textCap = 5000

// SaveSession stores a completed pipeline session. Long text fields are
// capped so one giant transcript can't bloat the table. Re-saving the
// same session id overwrites the previous row.
func (db *DB) SaveSession(ctx context.Context, session *types.SDRResult) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO sdr_sessions
			(session_id, lead_place_id, business_name, research_summary,
			 proposal_summary, call_transcript, call_outcome, email_sent,
			 email_subject, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (session_id) DO UPDATE SET
			research_summary = $4, proposal_summary = $5,
			call_transcript = $6, call_outcome = $7,
			email_sent = $8, email_subject = $9`,
		session.SessionID,
		session.LeadPlaceID,
		session.BusinessName,
		types.Truncate(session.ResearchSummary, textCap),
		types.Truncate(session.ProposalSummary, textCap),
		types.Truncate(session.CallTranscript, textCap),
		string(session.CallOutcome),
		session.EmailSent,
		session.EmailSubject,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.SessionID, err)
	}
	return nil
}

// GetSession loads one persisted session by id. Returns nil without
// error when no session exists.
func (db *DB) GetSession(ctx context.Context, sessionID string) (*types.SDRResult, error) {
	var s types.SDRResult
	var outcome string
	err := db.pool.QueryRow(ctx,
		`SELECT session_id, lead_place_id, business_name, research_summary,
			proposal_summary, call_transcript, call_outcome, email_sent,
			email_subject, created_at
		 FROM sdr_sessions WHERE session_id = $1`,
		sessionID,
	).Scan(&s.SessionID, &s.LeadPlaceID, &s.BusinessName, &s.ResearchSummary,
		&s.ProposalSummary, &s.CallTranscript, &outcome, &s.EmailSent,
		&s.EmailSubject, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	s.CallOutcome = types.ParseCallOutcome(outcome)
	return &s, nil
}

// ListSessions returns persisted sessions, newest first.
func (db *DB) ListSessions(ctx context.Context, limit int) ([]*types.SDRResult, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT session_id, lead_place_id, business_name, research_summary,
			proposal_summary, call_transcript, call_outcome, email_sent,
			email_subject, created_at
		 FROM sdr_sessions ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*types.SDRResult
	for rows.Next() {
		var s types.SDRResult
		var outcome string
		if err := rows.Scan(&s.SessionID, &s.LeadPlaceID, &s.BusinessName,
			&s.ResearchSummary, &s.ProposalSummary, &s.CallTranscript,
			&outcome, &s.EmailSent, &s.EmailSubject, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		s.CallOutcome = types.ParseCallOutcome(outcome)
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}
