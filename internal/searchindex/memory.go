package searchindex

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Term weights. A query term found in the title/description counts double
// what a body-only match counts, so title hits rank above content hits.
const (
	titleWeight = 2.0
	bodyWeight  = 1.0
)

type entry struct {
	title map[string]struct{}
	body  map[string]struct{}
}

// MemoryIndex is an in-memory inverted index guarded by a RWMutex.
// Owner corpora are independent; ReplaceOwner swaps a whole corpus under
// the write lock so searches never observe a half-built rebuild.
type MemoryIndex struct {
	mu     sync.RWMutex
	owners map[string]map[string]*entry // owner -> hashID -> entry
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{owners: make(map[string]map[string]*entry)}
}

func (idx *MemoryIndex) ReplaceOwner(owner string, docs []Document) {
	corpus := make(map[string]*entry, len(docs))
	for _, d := range docs {
		corpus[d.HashID] = newEntry(d)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.owners[owner] = corpus
}

func (idx *MemoryIndex) Upsert(owner string, doc Document) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	corpus, ok := idx.owners[owner]
	if !ok {
		corpus = make(map[string]*entry)
		idx.owners[owner] = corpus
	}
	corpus[doc.HashID] = newEntry(doc)
}

func (idx *MemoryIndex) Remove(owner, hashID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if corpus, ok := idx.owners[owner]; ok {
		delete(corpus, hashID)
	}
}

func (idx *MemoryIndex) Search(owner, query string) []Hit {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var hits []Hit
	for hashID, e := range idx.owners[owner] {
		score, ok := e.score(terms)
		if !ok {
			continue
		}
		hits = append(hits, Hit{HashID: hashID, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].HashID < hits[j].HashID
	})
	return hits
}

// score sums term weights; the second return is false unless every term
// appears somewhere in the document.
func (e *entry) score(terms []string) (float64, bool) {
	total := 0.0
	for _, t := range terms {
		if _, ok := e.title[t]; ok {
			total += titleWeight
			continue
		}
		if _, ok := e.body[t]; ok {
			total += bodyWeight
			continue
		}
		return 0, false
	}
	return total, true
}

func newEntry(d Document) *entry {
	return &entry{
		title: termSet(d.Title),
		body:  termSet(d.Body),
	}
}

func termSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(text) {
		set[t] = struct{}{}
	}
	return set
}

// Tokenize lowercases text and splits it on any non-alphanumeric rune.
// Markup in extracted page content falls away naturally since angle
// brackets and punctuation are separators.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
