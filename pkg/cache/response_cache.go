package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ResponseCache memoizes full chat turns so repeated demo questions replay
// instantly without a model call. Entries are keyed by (mode id,
// normalized text), TTL-expired on read, and LRU-evicted at capacity.

type ToolResult struct {
	Tool   string                 `json:"tool"`
	Result map[string]interface{} `json:"result"`
}

type Entry struct {
	Text        string       `json:"text"`
	ToolResults []ToolResult `json:"tool_results"`
	CreatedAt   time.Time    `json:"created_at"`
}

type ResponseCache struct {
	lru *expirable.LRU[string, Entry]
}

func NewResponseCache(capacity int, ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		lru: expirable.NewLRU[string, Entry](capacity, nil, ttl),
	}
}

// Get returns the cached turn for (modeID, text), if present and fresh.
func (c *ResponseCache) Get(modeID, text string) (Entry, bool) {
	return c.lru.Get(Key(modeID, text))
}

// Add stores a completed turn.
func (c *ResponseCache) Add(modeID, text string, entry Entry) {
	entry.CreatedAt = time.Now()
	c.lru.Add(Key(modeID, text), entry)
}

func (c *ResponseCache) Len() int {
	return c.lru.Len()
}

// Key hashes the mode id together with the normalized query so trivially
// different phrasings ("What's my balance?" vs "whats my balance") share
// an entry.
func Key(modeID, text string) string {
	sum := sha256.Sum256([]byte(modeID + "|" + Normalize(text)))
	return hex.EncodeToString(sum[:])
}

// Normalize lowercases, strips punctuation and collapses whitespace.
func Normalize(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
