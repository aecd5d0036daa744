package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"design2prompt/internal/domain"
	"design2prompt/internal/service"
	"design2prompt/internal/storage"
)

const (
	EventApprovalRequired  = "mcp:approval-required"
	EventApprovalDismissed = "mcp:approval-dismissed"
)

// ApprovalStore is the shared table a standalone MCP process uses to ask
// the desktop shell for approval. *storage.ApprovalStore implements it.
type ApprovalStore interface {
	Insert(a storage.PendingApproval) error
	Status(id string) (string, error)
	Delete(id string) error
}

// PendingAction represents a destructive operation awaiting user approval.
type PendingAction struct {
	ID          string `json:"id"`
	Tool        string `json:"tool"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	Metadata    string `json:"metadata"` // JSON with extra context (e.g. instance IDs)
}

// actionResult is sent through the channel when user approves/rejects.
type actionResult struct {
	approved bool
}

// ApprovalQueue manages human-in-the-loop approval for destructive MCP tool calls.
// It supports two modes:
//   - In-process (Wails app running MCP): uses channels + Wails events
//   - Store-based (standalone MCP): writes to mcp_approvals, polls for result
type ApprovalQueue struct {
	mu      sync.Mutex
	pending map[string]chan actionResult
	ctx     context.Context
	emitter service.EventEmitter
	timeout time.Duration
	poll    time.Duration
	store   ApprovalStore
}

func NewApprovalQueue(ctx context.Context, emitter service.EventEmitter) *ApprovalQueue {
	if emitter == nil {
		emitter = service.NoopEmitter{}
	}
	return &ApprovalQueue{
		pending: make(map[string]chan actionResult),
		ctx:     ctx,
		emitter: emitter,
		timeout: 120 * time.Second,
		poll:    500 * time.Millisecond,
	}
}

// SetStore enables store-based approval mode for standalone MCP.
func (q *ApprovalQueue) SetStore(store ApprovalStore) {
	q.store = store
}

// Request sends an approval request and blocks until approved/rejected.
// metadata is optional JSON with extra context (e.g. instance IDs for highlighting).
func (q *ApprovalQueue) Request(tool, description string, metadata ...string) (bool, error) {
	id := uuid.New().String()
	meta := "{}"
	if len(metadata) > 0 && metadata[0] != "" {
		meta = metadata[0]
	}

	if q.store != nil {
		return q.requestViaStore(id, tool, description, meta)
	}
	return q.requestViaChannel(id, tool, description, meta)
}

// requestViaStore writes a pending approval and polls until resolved.
func (q *ApprovalQueue) requestViaStore(id, tool, description, metadata string) (bool, error) {
	err := q.store.Insert(storage.PendingApproval{
		ID:          id,
		Tool:        tool,
		Description: description,
		Metadata:    metadata,
	})
	if err != nil {
		return false, err
	}
	defer q.store.Delete(id)

	deadline := time.NewTimer(q.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(q.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			status, err := q.store.Status(id)
			if errors.Is(err, domain.ErrNotFound) {
				return false, fmt.Errorf("approval for %s disappeared", tool)
			}
			if err != nil {
				continue
			}
			switch status {
			case storage.ApprovalApproved:
				return true, nil
			case storage.ApprovalRejected:
				return false, fmt.Errorf("action rejected by user: %s", tool)
			}
		case <-deadline.C:
			return false, fmt.Errorf("action timed out after %s: %s", q.timeout, tool)
		case <-q.ctx.Done():
			return false, fmt.Errorf("approval for %s: %w", tool, q.ctx.Err())
		}
	}
}

// requestViaChannel is the in-process mode using Wails events.
func (q *ApprovalQueue) requestViaChannel(id, tool, description, metadata string) (bool, error) {
	ch := make(chan actionResult, 1)

	q.mu.Lock()
	q.pending[id] = ch
	q.mu.Unlock()
	defer q.cleanup(id)

	q.emitter.Emit(q.ctx, EventApprovalRequired, PendingAction{
		ID:          id,
		Tool:        tool,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Metadata:    metadata,
	})

	select {
	case result := <-ch:
		if !result.approved {
			return false, fmt.Errorf("action rejected by user: %s", tool)
		}
		return true, nil
	case <-time.After(q.timeout):
		q.emitter.Emit(q.ctx, EventApprovalDismissed, map[string]string{"id": id})
		return false, fmt.Errorf("action timed out after %s: %s", q.timeout, tool)
	case <-q.ctx.Done():
		return false, fmt.Errorf("approval for %s: %w", tool, q.ctx.Err())
	}
}

// Approve marks a pending action as approved (in-process mode).
func (q *ApprovalQueue) Approve(actionID string) {
	q.resolve(actionID, true)
}

// Reject marks a pending action as rejected (in-process mode).
func (q *ApprovalQueue) Reject(actionID string) {
	q.resolve(actionID, false)
}

func (q *ApprovalQueue) resolve(actionID string, approved bool) {
	q.mu.Lock()
	ch, ok := q.pending[actionID]
	q.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- actionResult{approved: approved}:
	default:
	}
}

func (q *ApprovalQueue) cleanup(id string) {
	q.mu.Lock()
	delete(q.pending, id)
	q.mu.Unlock()
}
