// Package store keeps a durable audit trail of escalations and
// consultations. Sessions themselves are deliberately ephemeral; the audit
// log is what the operators review after the fact.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	escalationsBucket   = []byte("escalations")
	consultationsBucket = []byte("consultations")
)

// Escalation records one handoff to a human attendant.
type Escalation struct {
	ID     string    `json:"id"`
	Phone  string    `json:"phone"`
	State  string    `json:"state"`
	Reason string    `json:"reason"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

// Consultation records one workbook lookup attempt.
type Consultation struct {
	ID    string    `json:"id"`
	Phone string    `json:"phone"`
	Unit  string    `json:"unit"`
	Query string    `json:"query"`
	Found bool      `json:"found"`
	At    time.Time `json:"at"`
}

type Store interface {
	RecordEscalation(e Escalation) error
	RecordConsultation(c Consultation) error
	Counts() (escalations, consultations int, err error)
	Close() error
}

type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(escalationsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(consultationsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) RecordEscalation(e Escalation) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	return s.put(escalationsBucket, e.ID, e)
}

func (s *BoltStore) RecordConsultation(c Consultation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.At.IsZero() {
		c.At = time.Now()
	}
	return s.put(consultationsBucket, c.ID, c)
}

func (s *BoltStore) Counts() (escalations, consultations int, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		escalations = tx.Bucket(escalationsBucket).Stats().KeyN
		consultations = tx.Bucket(consultationsBucket).Stats().KeyN
		return nil
	})
	return escalations, consultations, err
}

func (s *BoltStore) put(bucket []byte, key string, v any) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
