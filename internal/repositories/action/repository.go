// Package action provides the repository interface and types for action
// records: the tracked, resumable units of work that apply instruction
// batches to a character.
package action

import (
	"context"
	"time"

	"github.com/openquest/gm-api/internal/instructions"
)

// Status is the lifecycle state of an action record.
//
//	PENDING -> PROCESSING -> APPLIED | FAILED
//
// APPLIED and FAILED are terminal; no transition leaves them.
type Status string

// Action statuses as persisted and observed over the wire.
const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusApplied    Status = "APPLIED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether no further transition can leave this status.
func (s Status) Terminal() bool {
	return s == StatusApplied || s == StatusFailed
}

// Effect records the outcome of one successfully applied instruction.
// Which fields are set depends on the instruction type.
type Effect struct {
	InstructionIndex int               `json:"instruction_index"`
	Type             instructions.Type `json:"type"`

	// HP/XP: the delta that was applied and the stat's value afterwards.
	Delta     int `json:"delta,omitempty"`
	Resulting int `json:"resulting,omitempty"`

	// Roll: the selected throw; Discarded holds the non-selected throw
	// of an advantage/disadvantage evaluation.
	Rolls     []int `json:"rolls,omitempty"`
	Mod       int   `json:"mod,omitempty"`
	Total     int   `json:"total,omitempty"`
	Discarded []int `json:"discarded,omitempty"`

	// Equip/Remove: the inventory entry touched.
	ItemID   string `json:"item_id,omitempty"`
	Quantity int    `json:"quantity,omitempty"`

	AppliedAt time.Time `json:"applied_at"`
}

// Record is one attempt to apply a batch of instructions to one
// character. Records are only ever mutated through the repository's
// transition operations and are retained forever as an audit trail.
type Record struct {
	ID            string                     `json:"id"`
	CharacterID   string                     `json:"character_id"`
	Instructions  []instructions.Instruction `json:"instructions"`
	Status        Status                     `json:"status"`
	Effects       []Effect                   `json:"effects,omitempty"`
	FailureReason string                     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// CreateInput contains parameters for creating an action record.
type CreateInput struct {
	ID           string
	CharacterID  string
	Instructions []instructions.Instruction
}

// CreateOutput contains the created record, in PENDING with no effects.
type CreateOutput struct {
	Record *Record
}

// BeginProcessingInput identifies the record to start processing.
type BeginProcessingInput struct {
	ID string
}

// BeginProcessingOutput contains the record after the transition.
type BeginProcessingOutput struct {
	Record *Record
}

// RecordEffectInput appends one applied-effect entry.
type RecordEffectInput struct {
	ID     string
	Effect Effect
}

// RecordEffectOutput contains the record after the append.
type RecordEffectOutput struct {
	Record *Record
}

// CompleteInput identifies the record to mark APPLIED.
type CompleteInput struct {
	ID string
}

// CompleteOutput contains the record after the transition.
type CompleteOutput struct {
	Record *Record
}

// FailInput marks a record FAILED with a reason. Effects recorded so
// far are kept as-is; nothing is rolled back.
type FailInput struct {
	ID     string
	Reason string
}

// FailOutput contains the record after the transition.
type FailOutput struct {
	Record *Record
}

// GetInput identifies the record to fetch.
type GetInput struct {
	ID string
}

// GetOutput contains the fetched record.
type GetOutput struct {
	Record *Record
}

// ListUnresolvedInput lists records not yet in a terminal state.
type ListUnresolvedInput struct{}

// ListUnresolvedOutput contains all PENDING and PROCESSING records.
type ListUnresolvedOutput struct {
	Records []*Record
}

// Repository defines the storage operations for action records. All
// transition operations enforce the state machine; a call that would
// violate it fails rather than silently no-op-ing.
type Repository interface {
	// Create stores a new record in PENDING.
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// BeginProcessing atomically transitions PENDING -> PROCESSING. It
	// is the single concurrency gate for a record: a second caller gets
	// an ABORTED conflict and must not blindly retry.
	BeginProcessing(ctx context.Context, input BeginProcessingInput) (*BeginProcessingOutput, error)

	// RecordEffect appends one applied-effect entry to a PROCESSING
	// record without changing its status.
	RecordEffect(ctx context.Context, input RecordEffectInput) (*RecordEffectOutput, error)

	// Complete transitions PROCESSING -> APPLIED. Valid only when every
	// instruction has a recorded effect.
	Complete(ctx context.Context, input CompleteInput) (*CompleteOutput, error)

	// Fail transitions PENDING or PROCESSING -> FAILED, keeping any
	// partial effects. PENDING is allowed so a record orphaned by a
	// provider timeout can still be resolved to a terminal state.
	Fail(ctx context.Context, input FailInput) (*FailOutput, error)

	// Get fetches a record by ID.
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListUnresolved returns every record not in a terminal state, for
	// the stale-action reaper.
	ListUnresolved(ctx context.Context, input ListUnresolvedInput) (*ListUnresolvedOutput, error)
}
