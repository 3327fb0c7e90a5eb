// Package state persists the pinned message id across restarts so the
// bot keeps editing the same channel message instead of posting a new
// one. The record rotates daily: a stale date means yesterday's message
// and a fresh one should be created.
package state

import (
	"encoding/json"
	"fmt"
	"os"
)

// DateLayout is the formatting of the record's date stamp.
const DateLayout = "2006-01-02"

type record struct {
	MessageID int    `json:"message_id"`
	Date      string `json:"date"`
}

// Store reads and writes the one-record state file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// MessageID returns the stored message id if the record exists and was
// written on the given date. A missing or unreadable file is treated as
// no state.
func (s *Store) MessageID(date string) (int, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, false
	}
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return 0, false
	}
	if r.Date != date || r.MessageID == 0 {
		return 0, false
	}
	return r.MessageID, true
}

// Save writes the message id stamped with the given date.
func (s *Store) Save(messageID int, date string) error {
	data, err := json.Marshal(record{MessageID: messageID, Date: date})
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
