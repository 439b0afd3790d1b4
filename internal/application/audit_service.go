package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/expenseflow/internal/domain"
)

// AuditService appends hash-chained events to the operational audit log.
type AuditService struct {
	store domain.Store
	clock Clock
}

func NewAuditService(store domain.Store, clock Clock) *AuditService {
	if clock == nil {
		clock = time.Now
	}
	return &AuditService{store: store, clock: clock}
}

// NewEvent builds an unchained event. The appender links it onto the log
// head and hashes it at the moment it is written, so chaining always happens
// under the same transaction as the write itself.
func (s *AuditService) NewEvent(action, actor string, metadata map[string]string) domain.Event {
	return domain.Event{
		ID:        uuid.NewString(),
		Timestamp: s.clock(),
		Action:    action,
		Actor:     actor,
		Metadata:  metadata,
	}
}

// Log records an action. Each event chains onto the hash of the previous
// one so the log is tamper-evident.
func (s *AuditService) Log(ctx context.Context, action, actor string, metadata map[string]string) error {
	last, err := s.store.LastEvent(ctx)
	if err != nil {
		return fmt.Errorf("failed to load audit head: %w", err)
	}

	event := s.NewEvent(action, actor, metadata)
	if last != nil {
		event.PrevHash = last.Hash
	}
	event.Hash = event.CalculateHash()

	if err := s.store.AppendEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// Verify walks the whole event log and checks the hash chain.
func (s *AuditService) Verify(ctx context.Context) error {
	events, err := s.store.Events(ctx)
	if err != nil {
		return err
	}
	return domain.VerifyChain(events)
}
