package minio

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"strings"

	"github.com/turtacn/ProjectPulse/internal/domain/snapshot"
	"github.com/turtacn/ProjectPulse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ProjectPulse/pkg/errors"
)

const (
	snapshotExt         = ".json"
	snapshotContentType = "application/json"
	defaultPrefix       = "snapshots/"
)

// SnapshotStore keeps each snapshot as one JSON object named after its ID.
type SnapshotStore struct {
	client *Client
	prefix string
	logger logging.Logger
}

var _ snapshot.Repository = (*SnapshotStore)(nil)

// NewSnapshotStore stores objects under the configured prefix.
func NewSnapshotStore(client *Client, log logging.Logger) *SnapshotStore {
	prefix := client.cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &SnapshotStore{client: client, prefix: prefix, logger: log}
}

func (s *SnapshotStore) key(id string) string {
	return s.prefix + id + snapshotExt
}

// Save uploads snap and returns where it landed.
func (s *SnapshotStore) Save(ctx context.Context, snap *snapshot.Snapshot) (*snapshot.Ref, error) {
	if snap == nil || snap.ID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "snapshot id required")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode snapshot")
	}

	key := s.key(snap.ID)
	info, err := s.client.Put(ctx, key, data, snapshotContentType, map[string]string{
		"fingerprint": snap.Fingerprint,
	})
	if err != nil {
		return nil, err
	}

	size := info.Size
	if size == 0 {
		size = int64(len(data))
	}
	s.logger.Debug("Snapshot stored", logging.String("key", key), logging.Int64("size", size))
	return &snapshot.Ref{ID: snap.ID, Key: key, Size: size, TakenAt: snap.TakenAt}, nil
}

// Get loads the snapshot with id.
func (s *SnapshotStore) Get(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	if id == "" || strings.ContainsAny(id, "/\\") {
		return nil, errors.New(errors.ErrCodeValidation, "invalid snapshot id")
	}
	data, err := s.client.Read(ctx, s.key(id))
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return nil, errors.Newf(errors.ErrCodeSnapshotNotFound, "snapshot %s not found", id)
		}
		return nil, err
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode snapshot "+id)
	}
	return &snap, nil
}

// List returns up to limit refs, newest first.  A non-positive limit
// returns all of them.
func (s *SnapshotStore) List(ctx context.Context, limit int) ([]snapshot.Ref, error) {
	objs, err := s.client.List(ctx, s.prefix)
	if err != nil {
		return nil, err
	}

	refs := make([]snapshot.Ref, 0, len(objs))
	for _, obj := range objs {
		name := path.Base(obj.Key)
		if !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		id := strings.TrimSuffix(name, snapshotExt)
		takenAt, ok := snapshot.TakenAtFromID(id)
		if !ok {
			takenAt = obj.LastModified.UTC()
		}
		refs = append(refs, snapshot.Ref{ID: id, Key: obj.Key, Size: obj.Size, TakenAt: takenAt})
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if !refs[i].TakenAt.Equal(refs[j].TakenAt) {
			return refs[i].TakenAt.After(refs[j].TakenAt)
		}
		return refs[i].ID > refs[j].ID
	})
	if limit > 0 && len(refs) > limit {
		refs = refs[:limit]
	}
	return refs, nil
}

// URL returns a presigned download link for the snapshot with id.
func (s *SnapshotStore) URL(ctx context.Context, id string) (string, error) {
	return s.client.PresignGet(ctx, s.key(id), 0)
}

//Personal.AI order the ending
