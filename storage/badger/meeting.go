package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/storage"
)

// MeetingRepository implements storage.MeetingRepository for BadgerDB.
type MeetingRepository struct {
	backend *Backend
}

var _ storage.MeetingRepository = (*MeetingRepository)(nil)

// NewMeetingRepository creates a new MeetingRepository.
func NewMeetingRepository(backend *Backend) *MeetingRepository {
	return &MeetingRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *MeetingRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MeetingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutMeeting stores or replaces a meeting record.
func (r *MeetingRepository) PutMeeting(ctx context.Context, meeting *core.Meeting) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMeetingKey(meeting.Id)

		// Clean up stale indices when replacing an existing record
		old, err := readMeeting(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			if old.ContentHash != meeting.ContentHash {
				if err := tx.Delete(makeMeetingHashKey(old.ContentHash)); err != nil {
					return err
				}
			}
			if !old.CreatedAt.Equal(meeting.CreatedAt) {
				if err := tx.Delete(makeMeetingCreatedKey(old.CreatedAt, old.Id)); err != nil {
					return err
				}
			}
		}

		if err := tx.Set(key, storage.MarshalMeeting(meeting)); err != nil {
			return err
		}

		// Content-hash index for duplicate detection
		if err := tx.Set(makeMeetingHashKey(meeting.ContentHash), []byte(meeting.Id)); err != nil {
			return err
		}

		// Creation-time index for listing
		if err := tx.Set(makeMeetingCreatedKey(meeting.CreatedAt, meeting.Id), []byte(meeting.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// GetMeeting retrieves a single meeting by ID.
func (r *MeetingRepository) GetMeeting(ctx context.Context, id string) (*core.Meeting, error) {
	var result *core.Meeting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readMeeting(tx, makeMeetingKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindMeetingByContentHash finds a meeting by its transcript content hash.
func (r *MeetingRepository) FindMeetingByContentHash(ctx context.Context, hash string) (*core.Meeting, error) {
	var result *core.Meeting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeMeetingHashKey(hash))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var meetingID string
		if err := item.Value(func(val []byte) error {
			meetingID = string(val)
			return nil
		}); err != nil {
			return err
		}

		result, err = readMeeting(tx, makeMeetingKey(meetingID))
		if err != nil {
			return err
		}
		if result == nil {
			// Dangling index entry; treat as absent
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListMeetings returns all meetings ordered by creation time, newest first.
func (r *MeetingRepository) ListMeetings(ctx context.Context) ([]*core.Meeting, error) {
	var results []*core.Meeting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(meetingCreatedPrefix + ":")
		// Seek past the last possible key in the creation-time index
		startKey := append(slices.Clone(prefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var meetingID string
			if err := iter.Item().Value(func(val []byte) error {
				meetingID = string(val)
				return nil
			}); err != nil {
				return err
			}

			meeting, err := readMeeting(tx, makeMeetingKey(meetingID))
			if err != nil {
				return err
			}
			if meeting != nil {
				results = append(results, meeting)
			}
		}
		return nil
	}, false)
	return results, err
}

// readMeeting reads a meeting record from the transaction.
func readMeeting(tx *badger.Txn, key []byte) (*core.Meeting, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var meeting *core.Meeting
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		meeting, unmarshalErr = storage.UnmarshalMeeting(val)
		return unmarshalErr
	})
	return meeting, err
}
