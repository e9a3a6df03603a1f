// Package archive stores delivery evidence (payload and outcome snapshots)
// in S3-compatible object storage for audit.
package archive

import (
	"context"
	"fmt"
	"time"
)

// Snapshot is the archived evidence for one dispatch attempt.
type Snapshot struct {
	DeliveryID string                 `json:"delivery_id"`
	WorkflowID string                 `json:"workflow_id"`
	RecordID   string                 `json:"record_id,omitempty"`
	Payload    map[string]interface{} `json:"payload"`
	Success    bool                   `json:"success"`
	StatusCode int                    `json:"status_code,omitempty"`
	Error      string                 `json:"error,omitempty"`
	ArchivedAt time.Time              `json:"archived_at"`
}

// Archive persists delivery snapshots.
type Archive interface {
	// Store writes the snapshot and returns the object key.
	Store(ctx context.Context, snap *Snapshot) (string, error)
}

// objectKey builds the storage key for a snapshot:
// deliveries/{workflow}/{yyyy/mm/dd}/{delivery}.json
func objectKey(snap *Snapshot) string {
	day := snap.ArchivedAt.UTC().Format("2006/01/02")
	return fmt.Sprintf("deliveries/%s/%s/%s.json", snap.WorkflowID, day, snap.DeliveryID)
}
