package roster

// MergeSightings applies incoming sightings to existing registry entries.
// Unknown ids are appended in arrival order; known ids only take the newer
// LastSeen. The input slice is not modified.
func MergeSightings(existing, incoming []KnownPlayer) ([]KnownPlayer, UpsertResult) {
	merged := make([]KnownPlayer, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.ExternalID] = i
	}

	var result UpsertResult
	for _, p := range incoming {
		if i, ok := index[p.ExternalID]; ok {
			if p.LastSeen.After(merged[i].LastSeen) {
				merged[i].LastSeen = p.LastSeen
			}
			result.Refreshed++
			continue
		}
		index[p.ExternalID] = len(merged)
		merged = append(merged, p)
		result.Inserted++
	}

	return merged, result
}
