package services

import (
	"context"
	"sort"
	"strings"

	"github.com/bindlehq/bindle/internal/storage"
)

// TagService answers tag-completion queries against the store's
// tag-association data.
type TagService struct {
	store storage.Store
}

func NewTagService(store storage.Store) *TagService {
	return &TagService{store: store}
}

// Complete returns every owner tag that starts with prefix and co-occurs on
// at least one bookmark carrying all of current. With no current tags any
// bookmark qualifies, so the answer is a plain prefix scan. Tags already in
// current are excluded. The result is sorted for stable output.
func (s *TagService) Complete(ctx context.Context, owner, prefix string, current []string) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	chosen := make(map[string]struct{}, len(current))
	var chosenList []string
	for _, c := range current {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := chosen[c]; ok {
			continue
		}
		chosen[c] = struct{}{}
		chosenList = append(chosenList, c)
	}

	if len(chosenList) == 0 {
		return s.store.ListTags(ctx, owner, prefix)
	}

	// Intersection first: only bookmarks tagged with every chosen tag can
	// contribute completions. Then union their remaining tags.
	bmarks, err := s.store.ListByTags(ctx, owner, chosenList)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{})
	for _, b := range bmarks {
		for _, t := range b.Tags {
			if _, taken := chosen[t.Name]; taken {
				continue
			}
			if !strings.HasPrefix(t.Name, prefix) {
				continue
			}
			set[t.Name] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}
