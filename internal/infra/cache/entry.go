// Package cache implements the read-through cache client used by all
// read-heavy lookups. It offers three load strategies guarding against
// cache penetration (null markers), cache breakdown (mutex + recheck) and
// cache avalanche (logical expiration with background rebuild).
package cache

import (
	"encoding/json"
	"time"
)

// Entry wraps a cached value for the logical-expiration strategy:
// freshness is a data property, not a store-TTL property, so an expired
// entry stays readable while one holder rebuilds it.
type Entry struct {
	Data     json.RawMessage `json:"data"`
	ExpireAt time.Time       `json:"expire_at"`
}

func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpireAt.After(now)
}

// nullMarker is the sentinel stored for confirmed misses against the
// source of truth. Distinct from "key absent": its presence means the
// source was checked and had nothing.
var nullMarker = []byte{}

func isNullMarker(data []byte) bool {
	return len(data) == 0
}
