package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dropin-checkout-api/models"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrResultNotFound  = errors.New("submission result not found")
)

// Schema:
//
//	CREATE TABLE checkout_sessions (
//	    id            CHAR(36) PRIMARY KEY,
//	    snapshot      JSON NOT NULL,
//	    hooks         JSON NOT NULL,
//	    submit_button JSON NOT NULL,
//	    created_at    DATETIME NOT NULL,
//	    updated_at    DATETIME NOT NULL
//	);
//
//	CREATE TABLE submission_results (
//	    session_id  CHAR(36) PRIMARY KEY,
//	    nonce       VARCHAR(255) NOT NULL,
//	    device_data TEXT NOT NULL,
//	    created_at  DATETIME NOT NULL,
//	    FOREIGN KEY (session_id) REFERENCES checkout_sessions(id)
//	);

func (c *Connection) CreateSession(session *models.CheckoutSession) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snapshotJSON, err := json.Marshal(session.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %v", err)
	}
	hooksJSON, err := json.Marshal(session.Hooks)
	if err != nil {
		return fmt.Errorf("failed to marshal hooks: %v", err)
	}
	buttonJSON, err := json.Marshal(session.SubmitButton)
	if err != nil {
		return fmt.Errorf("failed to marshal submit button style: %v", err)
	}

	_, err = c.db.ExecContext(ctx, `
        INSERT INTO checkout_sessions (id, snapshot, hooks, submit_button, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `, session.ID, snapshotJSON, hooksJSON, buttonJSON, session.CreatedAt, session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert checkout session: %v", err)
	}
	return nil
}

func (c *Connection) GetSession(id string) (*models.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		session      models.CheckoutSession
		snapshotJSON []byte
		hooksJSON    []byte
		buttonJSON   []byte
	)

	err := c.db.QueryRowContext(ctx, `
        SELECT id, snapshot, hooks, submit_button, created_at, updated_at
        FROM checkout_sessions
        WHERE id = ?
    `, id).Scan(&session.ID, &snapshotJSON, &hooksJSON, &buttonJSON,
		&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to query checkout session: %v", err)
	}

	session.Snapshot = &models.Snapshot{}
	if err := json.Unmarshal(snapshotJSON, session.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %v", err)
	}
	if err := json.Unmarshal(hooksJSON, &session.Hooks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hooks: %v", err)
	}
	if err := json.Unmarshal(buttonJSON, &session.SubmitButton); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submit button style: %v", err)
	}

	return &session, nil
}

// UpdateSnapshot replaces the stored snapshot wholesale. The host owns the
// snapshot and pushes the full current state on every render; there is no
// partial merge on this side.
func (c *Connection) UpdateSnapshot(id string, snapshot *models.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %v", err)
	}

	result, err := c.db.ExecContext(ctx, `
        UPDATE checkout_sessions
        SET snapshot = ?, updated_at = ?
        WHERE id = ?
    `, snapshotJSON, time.Now().UTC(), id)

	if err != nil {
		return fmt.Errorf("failed to update snapshot: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Zero rows can also mean an identical snapshot; confirm the
		// session actually exists before reporting not-found.
		if _, err := c.GetSession(id); err != nil {
			return err
		}
	}
	return nil
}

// SaveSubmissionResult stores the nonce and device data produced by one
// successful submission. A repeated submission for the same session
// replaces the previous result.
func (c *Connection) SaveSubmissionResult(sessionID, nonce, deviceData string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
        INSERT INTO submission_results (session_id, nonce, device_data, created_at)
        VALUES (?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            nonce = VALUES(nonce),
            device_data = VALUES(device_data),
            created_at = VALUES(created_at)
    `, sessionID, nonce, deviceData, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to save submission result: %v", err)
	}
	return nil
}

func (c *Connection) GetSubmissionResult(sessionID string) (*models.SubmissionResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result models.SubmissionResult
	err := c.db.QueryRowContext(ctx, `
        SELECT session_id, nonce, device_data, created_at
        FROM submission_results
        WHERE session_id = ?
    `, sessionID).Scan(&result.SessionID, &result.Nonce, &result.DeviceData, &result.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to query submission result: %v", err)
	}

	return &result, nil
}

func (c *Connection) DeleteSession(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.db.ExecContext(ctx, `
        DELETE FROM submission_results WHERE session_id = ?
    `, id); err != nil {
		return fmt.Errorf("failed to delete submission result: %v", err)
	}

	if _, err := c.db.ExecContext(ctx, `
        DELETE FROM checkout_sessions WHERE id = ?
    `, id); err != nil {
		return fmt.Errorf("failed to delete checkout session: %v", err)
	}
	return nil
}
