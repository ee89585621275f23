package keys

// Merge appends each new key to existing unless a byte-identical line is
// already present, growing the dedupe set as it goes. With overwrite the
// existing content is discarded and the new keys stand alone. Returns
// the merged lines and the count of lines actually added, which is what
// gets reported, not the total.
func Merge(existing, newKeys []string, overwrite bool) ([]string, int) {
	base := existing
	if overwrite {
		base = nil
	}

	merged := make([]string, len(base), len(base)+len(newKeys))
	copy(merged, base)

	present := make(map[string]struct{}, len(merged))
	for _, line := range merged {
		present[line] = struct{}{}
	}

	added := 0
	for _, key := range newKeys {
		if _, ok := present[key]; ok {
			continue
		}
		present[key] = struct{}{}
		merged = append(merged, key)
		added++
	}
	return merged, added
}
