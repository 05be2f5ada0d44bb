package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/storage"
)

// defaultAskMemoryCap bounds how many exchanges are remembered per meeting.
// When the cap is exceeded the oldest entries are evicted.
const defaultAskMemoryCap = 200

// AskMemoryRepository implements storage.AskMemoryRepository for BadgerDB.
type AskMemoryRepository struct {
	backend *Backend
	seq     *badger.Sequence
	cap     int
}

var _ storage.AskMemoryRepository = (*AskMemoryRepository)(nil)

// NewAskMemoryRepository creates a new AskMemoryRepository.
func NewAskMemoryRepository(backend *Backend) (*AskMemoryRepository, error) {
	seq, err := backend.GetSequence(askMemorySeq)
	if err != nil {
		return nil, err
	}
	return &AskMemoryRepository{
		backend: backend,
		seq:     seq,
		cap:     defaultAskMemoryCap,
	}, nil
}

// Close releases the sequence.
func (r *AskMemoryRepository) Close() error {
	return r.seq.Release()
}

// WithTransaction delegates to the backend.
func (r *AskMemoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendAsk records a question/answer exchange, evicting the oldest entries
// once the per-meeting cap is exceeded.
func (r *AskMemoryRepository) AppendAsk(ctx context.Context, meetingID string, record *core.AskRecord) error {
	seq, err := r.seq.Next()
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeAskMemoryKey(meetingID, seq)
		if err := tx.Set(key, storage.MarshalAskRecord(record)); err != nil {
			return err
		}

		// Evict oldest entries beyond the cap. Keys are insertion-ordered,
		// so a forward scan visits oldest first.
		prefix := makeAskMemoryPrefix(meetingID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		iter := tx.NewIterator(opts)
		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for len(keys) > r.cap {
			if err := tx.Delete(keys[0]); err != nil {
				return err
			}
			keys = keys[1:]
		}

		return tx.Commit()
	}, true)
}

// RecentAsks returns up to limit of the most recent exchanges, oldest first.
func (r *AskMemoryRepository) RecentAsks(ctx context.Context, meetingID string, limit int) ([]*core.AskRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	var results []*core.AskRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeAskMemoryPrefix(meetingID)
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible key for this meeting
		startKey := append(slices.Clone(prefix), 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			var record *core.AskRecord
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalAskRecord(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			results = append(results, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Reverse scan collected newest first; callers want oldest first.
	slices.Reverse(results)
	return results, nil
}
