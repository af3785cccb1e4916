package evaluation

import "github.com/askcorpus/askcorpus-go/internal/domain/entities"

// ExtractSources returns the citation strings of the given records,
// first-seen order preserved, exact duplicates suppressed. Records with
// no resolvable source are skipped, so the result never contains empty
// strings.
func ExtractSources(records []entities.Record) []string {
	seen := make(map[string]struct{}, len(records))
	sources := make([]string, 0, len(records))

	for _, r := range records {
		source := r.ResolveSource()
		if source == "" {
			continue
		}
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		sources = append(sources, source)
	}
	return sources
}
