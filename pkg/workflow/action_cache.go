package workflow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ringods/projen-pulumi/pkg/constants"
	"github.com/ringods/projen-pulumi/pkg/logger"
)

var actionCacheLog = logger.New("workflow:action_cache")

// ActionCacheEntry is one resolved action tag.
type ActionCacheEntry struct {
	Repo    string `json:"repo"`
	Version string `json:"version"`
	SHA     string `json:"sha"`
}

// ActionCache is the on-disk lock of tag to commit SHA resolutions, keyed by
// "repo@version".
type ActionCache struct {
	Entries map[string]ActionCacheEntry `json:"entries"`
	path    string
	dirty   bool
}

// NewActionCache creates a cache stored under repoRoot.
func NewActionCache(repoRoot string) *ActionCache {
	cachePath := filepath.Join(repoRoot, constants.ActionLockFile)
	actionCacheLog.Printf("Creating action cache with path: %s", cachePath)
	return &ActionCache{
		Entries: make(map[string]ActionCacheEntry),
		path:    cachePath,
	}
}

// Load reads the lock file. A missing file leaves the cache empty.
func (c *ActionCache) Load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			actionCacheLog.Print("Lock file does not exist, starting with empty cache")
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, c); err != nil {
		actionCacheLog.Printf("Failed to unmarshal lock file: %v", err)
		return err
	}
	if c.Entries == nil {
		c.Entries = make(map[string]ActionCacheEntry)
	}
	c.dirty = false

	actionCacheLog.Printf("Loaded %d entries from %s", len(c.Entries), c.path)
	return nil
}

// Save writes the lock file when entries changed since the last Load or
// Save. Superseded entries are pruned first.
func (c *ActionCache) Save() error {
	if !c.dirty {
		actionCacheLog.Print("Cache is clean, skipping save")
		return nil
	}

	c.deduplicateEntries()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}

	// encoding/json writes map keys sorted, which keeps the file diff-stable
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return err
	}

	actionCacheLog.Printf("Saved %d entries to %s", len(c.Entries), c.path)
	c.dirty = false
	return nil
}

// Get returns the cached SHA for repo@version.
func (c *ActionCache) Get(repo, version string) (string, bool) {
	entry, ok := c.Entries[formatActionCacheKey(repo, version)]
	if !ok {
		return "", false
	}
	return entry.SHA, true
}

// Set records a resolution and marks the cache dirty.
func (c *ActionCache) Set(repo, version, sha string) {
	key := formatActionCacheKey(repo, version)
	if existing, ok := c.Entries[key]; ok && existing.SHA == sha {
		return
	}
	actionCacheLog.Printf("Setting cache entry: key=%s, sha=%s", key, sha)
	c.Entries[key] = ActionCacheEntry{Repo: repo, Version: version, SHA: sha}
	c.dirty = true
}

// GetCachePath returns the path to the lock file
func (c *ActionCache) GetCachePath() string {
	return c.path
}

// deduplicateEntries keeps only the most precise tag per repo and SHA, so
// "pulumi/actions@v6" is dropped when "pulumi/actions@v6.1.0" resolves to
// the same commit.
func (c *ActionCache) deduplicateEntries() {
	type group struct{ repo, sha string }
	groups := make(map[group][]string)
	for key, entry := range c.Entries {
		g := group{entry.Repo, entry.SHA}
		groups[g] = append(groups[g], key)
	}

	for g, keys := range groups {
		if len(keys) < 2 {
			continue
		}
		slices.SortFunc(keys, func(a, b string) int {
			if isMorePreciseVersion(c.Entries[a].Version, c.Entries[b].Version) {
				return -1
			}
			if isMorePreciseVersion(c.Entries[b].Version, c.Entries[a].Version) {
				return 1
			}
			return 0
		})
		for _, key := range keys[1:] {
			actionCacheLog.Printf("Deduplicating %s: keeping %s, removing %s", g.repo, keys[0], key)
			delete(c.Entries, key)
		}
	}
}

// isMorePreciseVersion returns true if v1 is more precise than v2
// For example: "v4.3.0" is more precise than "v4"
func isMorePreciseVersion(v1, v2 string) bool {
	dots1 := strings.Count(v1, ".")
	dots2 := strings.Count(v2, ".")
	if dots1 != dots2 {
		return dots1 > dots2
	}
	return v1 > v2
}

func formatActionCacheKey(repo, version string) string {
	return repo + "@" + version
}
