package hostset

import (
	"sort"

	"github.com/cloudflare/ahocorasick"
	"go.uber.org/zap"

	"seoaudit/internal/pkg/config"
	"seoaudit/internal/pkg/logger"
)

// Set is the registry of every host the audited deployment owns: all
// marketing hosts plus all app hosts across every brand. It answers
// membership questions for canonical and link checks and scans text bodies
// for cross-brand host mentions.
type Set struct {
	members map[string]struct{}
	ordered []string
	matcher *ahocorasick.Matcher
}

// Builds the registry from the configured brands. Must run before any fetch
// so that every check sees the same complete host universe.
func Build(brands []config.BrandConfig) Set {
	members := make(map[string]struct{})
	for _, brand := range brands {
		members[brand.MarketingHost] = struct{}{}
		for _, app := range brand.AppHosts {
			members[app.Host] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(members))
	for host := range members {
		ordered = append(ordered, host)
	}
	sort.Strings(ordered)

	// One Aho-Corasick automaton over all hosts; a single pass over a body
	// replaces a per-host substring loop.
	var matcher *ahocorasick.Matcher
	if len(ordered) > 0 {
		patterns := make([][]byte, len(ordered))
		for i, host := range ordered {
			patterns[i] = []byte(host)
		}
		matcher = ahocorasick.NewMatcher(patterns)
	}

	logger.Log.Debug("Built host registry", zap.Int("host_count", len(ordered)))

	return Set{
		members: members,
		ordered: ordered,
		matcher: matcher,
	}
}

// Reports whether host is one of the deployment's own hosts. Matching is
// exact string equality on the host as written in config, port included.
func (s Set) Contains(host string) bool {
	_, ok := s.members[host]
	return ok
}

// Returns all registry hosts in sorted order.
func (s Set) Hosts() []string {
	out := make([]string, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Returns every registry host that occurs as a case-sensitive substring of
// body, in sorted host order.
func (s Set) FoundIn(body string) []string {
	if s.matcher == nil || body == "" {
		return nil
	}
	hits := s.matcher.Match([]byte(body))
	if len(hits) == 0 {
		return nil
	}
	found := make(map[int]struct{}, len(hits))
	for _, hit := range hits {
		found[hit] = struct{}{}
	}
	out := make([]string, 0, len(found))
	for i, host := range s.ordered {
		if _, ok := found[i]; ok {
			out = append(out, host)
		}
	}
	return out
}

// Len returns the number of registered hosts.
func (s Set) Len() int {
	return len(s.ordered)
}
