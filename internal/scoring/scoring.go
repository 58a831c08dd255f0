// Package scoring holds the two business handlers: the additive score
// calculation with its cache, and the per-client interests lookup.
package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/ildarkit/hw3/internal/store"
)

// scoreTTL is how long a computed score stays cached.
const scoreTTL = time.Hour

// Person carries the validated attributes the score is derived from.
type Person struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  time.Time
	Gender    *int
}

// Score returns the person's score, preferring a non-zero cached value over
// recomputation. The cache key digests name and birthday with MD5; this is a
// cache key, not a security boundary. Cache failures degrade to a plain
// computation.
func Score(ctx context.Context, st store.Store, p Person) float64 {
	key := cacheKey(p)
	if cached, ok := st.CacheGet(ctx, key); ok {
		if score, err := strconv.ParseFloat(cached, 64); err == nil && score != 0 {
			return score
		}
	}

	var score float64
	if p.Phone != "" {
		score += 1.5
	}
	if p.Email != "" {
		score += 1.5
	}
	if !p.Birthday.IsZero() && p.Gender != nil {
		score += 1.5
	}
	if p.FirstName != "" && p.LastName != "" {
		score += 0.5
	}

	st.CacheSet(ctx, key, strconv.FormatFloat(score, 'f', -1, 64), scoreTTL)
	return score
}

// Interests returns the interest list stored for one client id. An absent
// key is an empty list; a store failure is the caller's problem.
func Interests(ctx context.Context, st store.Store, clientID int64) ([]string, error) {
	items, err := st.Get(ctx, "i:"+strconv.FormatInt(clientID, 10))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}

func cacheKey(p Person) string {
	var birthday string
	if !p.Birthday.IsZero() {
		birthday = p.Birthday.Format("20060102")
	}
	sum := md5.Sum([]byte(p.FirstName + p.LastName + birthday))
	return "uid:" + hex.EncodeToString(sum[:])
}
