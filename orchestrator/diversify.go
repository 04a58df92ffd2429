package orchestrator

import (
	"net/url"
	"strings"

	"github.com/use-agent/shopscout/models"
)

const maxCandidates = 20

// Diversify buckets candidates by host and round-robins across hosts, up
// to 3 passes of 2 per host, so one dominant host can't crowd out the
// visit budget. Order within a host is preserved.
func Diversify(results []models.SearchResult) []string {
	buckets := make(map[string][]string)
	var hostOrder []string

	for _, r := range results {
		host := hostOf(r.URL)
		if host == "" {
			continue
		}
		if _, seen := buckets[host]; !seen {
			hostOrder = append(hostOrder, host)
		}
		buckets[host] = append(buckets[host], r.URL)
	}

	taken := make(map[string]int, len(hostOrder))
	var out []string

	for pass := 0; pass < 3 && len(out) < maxCandidates; pass++ {
		for _, host := range hostOrder {
			if len(out) >= maxCandidates {
				break
			}
			perPass := 0
			for perPass < 2 && taken[host] < len(buckets[host]) && len(out) < maxCandidates {
				out = append(out, buckets[host][taken[host]])
				taken[host]++
				perPass++
			}
		}
	}

	return out
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
