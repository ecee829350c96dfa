package pattern

// Filter returns the candidates whose name, as extracted by nameOf, matches
// pattern. The pattern is compiled once per call. Duplicate candidates
// collapse to their first occurrence; the input slice is not modified.
func Filter[T comparable](candidates []T, nameOf func(T) string, pattern string) []T {
	m := Compile(pattern)
	seen := make(map[T]struct{}, len(candidates))
	result := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		if m.Match(nameOf(c)) {
			result = append(result, c)
		}
	}
	return result
}

// FilterNames is Filter for plain names.
func FilterNames(names []string, pattern string) []string {
	return Filter(names, identity, pattern)
}

func identity(s string) string { return s }
