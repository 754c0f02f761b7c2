package billing

import "time"

// SyncStatus tracks whether a document has been pushed to the external
// accounting system
type SyncStatus string

const (
	SyncPending SyncStatus = "PENDING"
	SyncSynced  SyncStatus = "SYNCED"
	SyncError   SyncStatus = "ERROR"
)

// SyncState is embedded in documents that mirror an external accounting
// record. ExternalID is the vendor-side identifier, kept as a plain string.
type SyncState struct {
	ExternalID   string     `gorm:"size:100;index" json:"external_id,omitempty"`
	SyncStatus   SyncStatus `gorm:"not null;size:10;default:'PENDING'" json:"sync_status"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// MarkSynced records a successful sync against the external record
func (s *SyncState) MarkSynced(externalID string, at time.Time) {
	s.ExternalID = externalID
	s.SyncStatus = SyncSynced
	s.LastSyncedAt = &at
}

// MarkSyncError flags the document as out of sync
func (s *SyncState) MarkSyncError() {
	s.SyncStatus = SyncError
}
