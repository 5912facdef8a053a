// Package featureflags evaluates runtime flags parsed from a flat config
// string, e.g. "kill_promotions=on,beta_search=10%".
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds the parsed flag set. A nil Manager reports every flag off.
type Manager struct {
	flags map[string]string
}

// NewManager parses a comma-separated "name=value" list. Malformed pairs
// are skipped rather than rejected so a typo in one flag cannot take down
// the rest of the set.
func NewManager(raw string) *Manager {
	m := &Manager{flags: make(map[string]string)}

	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = normalize(name)
		value = normalize(value)
		if name == "" || value == "" {
			continue
		}
		m.flags[name] = value
	}

	return m
}

// Enabled evaluates one flag for a user. Values "on", "true" and "1" enable
// unconditionally; "off", "false" and "0" disable. A percentage such as
// "25%" enables the flag for a stable bucket of users, so the same user
// always sees the same answer. Unknown flags and unknown values are off.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	if pctRaw, ok := strings.CutSuffix(value, "%"); ok {
		pct, err := strconv.Atoi(pctRaw)
		if err != nil || pct <= 0 {
			return false
		}
		if pct >= 100 {
			return true
		}
		// Anonymous traffic has no stable identity to bucket on.
		if userID == 0 {
			return false
		}
		return bucket(name, userID) < pct
	}

	return false
}

// Raw returns a copy of the configured flag values as parsed.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for name, value := range m.flags {
		out[name] = value
	}
	return out
}

// Snapshot evaluates every configured flag for one user. This is what the
// flags endpoint serves so clients never re-implement rollout math.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket maps a (flag, user) pair onto 0..99. fnv keeps it cheap and
// deterministic across restarts.
func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name)))
	_, _ = h.Write([]byte(":"))
	_, _ = h.Write([]byte(strconv.FormatUint(uint64(userID), 10)))
	return int(h.Sum32() % 100)
}
