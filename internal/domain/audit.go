package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// Event is a single auditable action in the system. Events form a hash
// chain: each event embeds the hash of its predecessor, so silent edits or
// deletions anywhere in the log break verification.
type Event struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	Actor     string            `json:"actor"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	PrevHash  string            `json:"prev_hash,omitempty"`
	Hash      string            `json:"hash,omitempty"`
}

// CalculateHash generates a deterministic SHA256 hash of the event data.
func (e *Event) CalculateHash() string {
	h := sha256.New()
	// Deterministic sequence: PrevHash + ID + Timestamp + Action + Actor + Metadata
	h.Write([]byte(e.PrevHash))
	h.Write([]byte(e.ID))
	h.Write([]byte(e.Timestamp.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte(e.Action))
	h.Write([]byte(e.Actor))

	keys := make([]string, 0, len(e.Metadata))
	for k := range e.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(e.Metadata[k]))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}

// VerifyChain checks that the events form an unbroken hash chain in the
// given order.
func VerifyChain(events []Event) error {
	prev := ""
	for i := range events {
		e := &events[i]
		if e.PrevHash != prev {
			return fmt.Errorf("event %s: prev_hash mismatch", e.ID)
		}
		if e.Hash != e.CalculateHash() {
			return fmt.Errorf("event %s: hash mismatch", e.ID)
		}
		prev = e.Hash
	}
	return nil
}
