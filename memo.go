package netrat

import (
	"expvar"
	"strconv"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/timpalpant/netrat/profile"
)

var (
	memoHits   = expvar.NewInt("netrat/memo_hits")
	memoMisses = expvar.NewInt("netrat/memo_misses")
	memoSize   = expvar.NewInt("netrat/memo_size")
)

// memo caches feasibility verdicts by (player, action, support). A verdict
// depends only on the payoffs, so entries stay valid across rounds.
// Concurrent requests for the same key share one solve.
type memo struct {
	cache *lru.Cache // nil when disabled
	calls singleflight.Group
}

func newMemo(size int) (*memo, error) {
	if size < 0 {
		return &memo{}, nil
	}

	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "creating feasibility memo")
	}

	return &memo{cache: cache}, nil
}

func memoKey(player int, action profile.Action, support profile.Support) string {
	buf := make([]byte, 0, 16)
	buf = strconv.AppendInt(buf, int64(player), 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(action), 10)
	buf = append(buf, ':')
	return string(buf) + support.Key()
}

// do returns the cached verdict for key, or computes it with fn.
// Errors are shared with concurrent callers but never cached.
func (m *memo) do(key string, fn func() (bool, error)) (verdict bool, hit bool, err error) {
	if m.cache == nil {
		verdict, err = fn()
		return verdict, false, err
	}

	if v, ok := m.cache.Get(key); ok {
		memoHits.Add(1)
		return v.(bool), true, nil
	}

	memoMisses.Add(1)
	executed := false
	v, err, _ := m.calls.Do(key, func() (interface{}, error) {
		executed = true
		verdict, err := fn()
		if err != nil {
			return false, err
		}

		m.cache.Add(key, verdict)
		memoSize.Set(int64(m.cache.Len()))
		return verdict, nil
	})

	return v.(bool), !executed, err
}
