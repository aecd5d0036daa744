package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"design2prompt/internal/domain"
)

// Approval statuses written to mcp_approvals.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// PendingApproval is a destructive MCP action waiting for the desktop user.
type PendingApproval struct {
	ID          string    `json:"id"`
	Tool        string    `json:"tool"`
	Description string    `json:"description"`
	Metadata    string    `json:"metadata"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ApprovalStore is the cross-process mailbox between a standalone MCP
// server and the desktop shell: the server inserts and polls, the shell
// lists pending rows and resolves them.
type ApprovalStore struct {
	db *DB
}

func NewApprovalStore(db *DB) *ApprovalStore {
	return &ApprovalStore{db: db}
}

func (s *ApprovalStore) Insert(a PendingApproval) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.exec(
		`INSERT INTO mcp_approvals (id, tool, description, status, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Tool, a.Description, ApprovalPending, a.Metadata, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

// Status returns the current status of id, ErrNotFound once it is gone.
func (s *ApprovalStore) Status(id string) (string, error) {
	var status string
	err := s.db.queryRow(`SELECT status FROM mcp_approvals WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("approval %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("approval status: %w", err)
	}
	return status, nil
}

// Resolve records the user's decision on a pending action.
func (s *ApprovalStore) Resolve(id string, approved bool) error {
	status := ApprovalRejected
	if approved {
		status = ApprovalApproved
	}
	res, err := s.db.exec(`UPDATE mcp_approvals SET status = ? WHERE id = ? AND status = ?`, status, id, ApprovalPending)
	if err != nil {
		return fmt.Errorf("resolve approval: %w", err)
	}
	return requireRow(res, "approval", id)
}

func (s *ApprovalStore) Delete(id string) error {
	if _, err := s.db.exec(`DELETE FROM mcp_approvals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete approval: %w", err)
	}
	return nil
}

// Pending lists unresolved actions, oldest first.
func (s *ApprovalStore) Pending() ([]PendingApproval, error) {
	rows, err := s.db.query(
		`SELECT id, tool, description, metadata, created_at FROM mcp_approvals WHERE status = ? ORDER BY created_at`,
		ApprovalPending,
	)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	var out []PendingApproval
	for rows.Next() {
		var a PendingApproval
		if err := rows.Scan(&a.ID, &a.Tool, &a.Description, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
