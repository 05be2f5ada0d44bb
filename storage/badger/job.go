package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/minuted/core"
	"github.com/poiesic/minuted/storage"
)

// JobRepository implements storage.JobRepository for BadgerDB.
type JobRepository struct {
	backend *Backend
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) *JobRepository {
	return &JobRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *JobRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *JobRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutJob stores or replaces a job record, stamping UpdatedAt.
func (r *JobRepository) PutJob(ctx context.Context, job *core.IngestJob) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		job.UpdatedAt = time.Now().UTC()
		if job.CreatedAt.IsZero() {
			job.CreatedAt = job.UpdatedAt
		}
		if err := tx.Set(makeJobKey(job.Id), storage.MarshalIngestJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetJob retrieves a job by ID.
func (r *JobRepository) GetJob(ctx context.Context, id string) (*core.IngestJob, error) {
	var result *core.IngestJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeJobKey(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalIngestJob(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}
