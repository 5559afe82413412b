package services

import (
	"context"
	"sort"
	"time"

	"github.com/bindlehq/bindle/internal/model"
	"github.com/bindlehq/bindle/internal/storage"
)

// SyncService implements the device-sync protocol: the server publishes its
// authoritative hash set, clients diff against it and converge. Every call
// is stateless and idempotent; no partial-sync state lives server-side.
type SyncService struct {
	store storage.Store
}

func NewSyncService(store storage.Store) *SyncService {
	return &SyncService{store: store}
}

// Snapshot returns the owner's full hash set, optionally restricted to
// bookmarks updated at or after since.
func (s *SyncService) Snapshot(ctx context.Context, owner string, since *time.Time) ([]string, error) {
	return s.store.Snapshot(ctx, owner, since)
}

// Diff computes the pure set difference between the server's hash set and a
// client's. After the client fetches ToAdd and deletes ToRemove, its local
// set equals the server set.
func Diff(server, client []string) model.SyncDiff {
	serverSet := toSet(server)
	clientSet := toSet(client)

	d := model.SyncDiff{ToAdd: []string{}, ToRemove: []string{}}
	for h := range serverSet {
		if _, ok := clientSet[h]; !ok {
			d.ToAdd = append(d.ToAdd, h)
		}
	}
	for h := range clientSet {
		if _, ok := serverSet[h]; !ok {
			d.ToRemove = append(d.ToRemove, h)
		}
	}
	sort.Strings(d.ToAdd)
	sort.Strings(d.ToRemove)
	return d
}

func toSet(hashes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		set[h] = struct{}{}
	}
	return set
}
