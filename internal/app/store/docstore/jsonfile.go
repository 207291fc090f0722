package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ttlFields names the collections whose documents expire: any document
// whose named field holds a timestamp in the past is dropped on load,
// mirroring the TTL indexes the mongo backend gets.
var ttlFields = map[string]string{
	ColScanSessions: "expires_at",
	ColShareLinks:   "expires_at",
}

// jsonDB is the file-backed fallback. Each collection is one JSON array
// file under dir. A single mutex serializes all operations, which makes
// every read-modify-write atomic.
type jsonDB struct {
	dir string
	mu  sync.Mutex
}

// OpenJSONFile opens (creating if needed) a file-backed store rooted at dir.
func OpenJSONFile(dir string) (DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &jsonDB{dir: dir}, nil
}

func (j *jsonDB) Collection(name string) Collection {
	return &jsonCollection{db: j, name: name}
}

func (j *jsonDB) Ping(ctx context.Context) error {
	_, err := os.Stat(j.dir)
	return err
}

func (j *jsonDB) Close(ctx context.Context) error { return nil }

func (j *jsonDB) Kind() string { return "jsonfile" }

type jsonCollection struct {
	db   *jsonDB
	name string
}

func (c *jsonCollection) path() string {
	return filepath.Join(c.db.dir, c.name+".json")
}

// load reads the collection file and purges expired documents from TTL
// collections, rewriting the file when anything was dropped.
func (c *jsonCollection) load() ([]map[string]any, error) {
	raw, err := os.ReadFile(c.path())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var docs []map[string]any
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}

	if field, ok := ttlFields[c.name]; ok {
		now := time.Now()
		kept := docs[:0]
		purged := false
		for _, d := range docs {
			if exp, ok := asTime(d[field]); ok && !exp.After(now) {
				purged = true
				continue
			}
			kept = append(kept, d)
		}
		docs = kept
		if purged {
			if err := c.save(docs); err != nil {
				return nil, err
			}
		}
	}
	return docs, nil
}

func (c *jsonCollection) save(docs []map[string]any) error {
	if docs == nil {
		docs = []map[string]any{}
	}
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.path() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path())
}

// norm round-trips a value through JSON so filter values and stored values
// compare in the same representation (numbers as float64, times as RFC 3339
// strings, structs as maps).
func norm(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func deepEqual(a, b any) bool {
	ra, err1 := json.Marshal(a)
	rb, err2 := json.Marshal(b)
	return err1 == nil && err2 == nil && string(ra) == string(rb)
}

// compare orders a stored value against a filter value. Times compare as
// instants, numbers numerically, strings lexically. ok is false when the
// two are not comparable (including nulls), so range conditions skip the
// document, matching mongo's type bracketing.
func compare(doc, want any) (int, bool) {
	if dt, ok := asTime(doc); ok {
		if wt, ok := asTime(want); ok {
			switch {
			case dt.Before(wt):
				return -1, true
			case dt.After(wt):
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if dn, ok := doc.(float64); ok {
		if wn, ok := want.(float64); ok {
			switch {
			case dn < wn:
				return -1, true
			case dn > wn:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if ds, ok := doc.(string); ok {
		if ws, ok := want.(string); ok {
			switch {
			case ds < ws:
				return -1, true
			case ds > ws:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}

func matches(doc map[string]any, filter Filter) (bool, error) {
	for _, cond := range filter {
		switch cond.Op {
		case OpEq:
			want, err := norm(cond.Value)
			if err != nil {
				return false, err
			}
			if !deepEqual(doc[cond.Field], want) {
				return false, nil
			}
		case OpExists:
			_, present := doc[cond.Field]
			shouldExist, _ := cond.Value.(bool)
			if present != shouldExist {
				return false, nil
			}
		case OpLt, OpGt:
			got, present := doc[cond.Field]
			if !present || got == nil {
				return false, nil
			}
			want, err := norm(cond.Value)
			if err != nil {
				return false, err
			}
			order, comparable := compare(got, want)
			if !comparable {
				return false, nil
			}
			if cond.Op == OpLt && order >= 0 {
				return false, nil
			}
			if cond.Op == OpGt && order <= 0 {
				return false, nil
			}
		}
	}
	return true, nil
}

func (c *jsonCollection) FindOne(ctx context.Context, filter Filter, out any) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	docs, err := c.load()
	if err != nil {
		return err
	}
	for _, d := range docs {
		ok, err := matches(d, filter)
		if err != nil {
			return err
		}
		if ok {
			return decodeInto(d, out)
		}
	}
	return ErrNoDocuments
}

func (c *jsonCollection) Find(ctx context.Context, filter Filter, out any) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	docs, err := c.load()
	if err != nil {
		return err
	}
	matched := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		ok, err := matches(d, filter)
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, d)
		}
	}
	return decodeInto(matched, out)
}

func (c *jsonCollection) InsertOne(ctx context.Context, doc any) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	docs, err := c.load()
	if err != nil {
		return err
	}
	normalized, err := norm(doc)
	if err != nil {
		return err
	}
	m, ok := normalized.(map[string]any)
	if !ok {
		return fmt.Errorf("insert into %s: document must encode to an object", c.name)
	}
	return c.save(append(docs, m))
}

func (c *jsonCollection) UpdateOne(ctx context.Context, filter Filter, set Set, upsert bool) (int64, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	docs, err := c.load()
	if err != nil {
		return 0, err
	}
	for i, d := range docs {
		ok, err := matches(d, filter)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if err := applySet(d, set); err != nil {
			return 0, err
		}
		docs[i] = d
		return 1, c.save(docs)
	}

	if !upsert {
		return 0, nil
	}
	fresh := map[string]any{}
	for _, cond := range filter {
		if cond.Op == OpEq {
			v, err := norm(cond.Value)
			if err != nil {
				return 0, err
			}
			fresh[cond.Field] = v
		}
	}
	if err := applySet(fresh, set); err != nil {
		return 0, err
	}
	return 1, c.save(append(docs, fresh))
}

func (c *jsonCollection) UpdateMany(ctx context.Context, filter Filter, set Set) (int64, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	docs, err := c.load()
	if err != nil {
		return 0, err
	}
	var modified int64
	for i, d := range docs {
		ok, err := matches(d, filter)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if err := applySet(d, set); err != nil {
			return 0, err
		}
		docs[i] = d
		modified++
	}
	if modified == 0 {
		return 0, nil
	}
	return modified, c.save(docs)
}

func (c *jsonCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	docs, err := c.load()
	if err != nil {
		return 0, err
	}
	kept := docs[:0]
	var deleted int64
	for _, d := range docs {
		ok, err := matches(d, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	if deleted == 0 {
		return 0, nil
	}
	return deleted, c.save(kept)
}

func (c *jsonCollection) Count(ctx context.Context, filter Filter) (int64, error) {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()

	docs, err := c.load()
	if err != nil {
		return 0, err
	}
	var n int64
	for _, d := range docs {
		ok, err := matches(d, filter)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func applySet(doc map[string]any, set Set) error {
	for k, v := range set {
		nv, err := norm(v)
		if err != nil {
			return err
		}
		doc[k] = nv
	}
	return nil
}

func decodeInto(v any, out any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
