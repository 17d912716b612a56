package catalog

import "strings"

// chunkInt64 splits ids into slices of at most n elements.
func chunkInt64(ids []int64, n int) [][]int64 {
	var chunks [][]int64
	for len(ids) > 0 {
		end := n
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[:end])
		ids = ids[end:]
	}
	return chunks
}

// chunkStrings splits paths into slices of at most n elements.
func chunkStrings(paths []string, n int) [][]string {
	var chunks [][]string
	for len(paths) > 0 {
		end := n
		if end > len(paths) {
			end = len(paths)
		}
		chunks = append(chunks, paths[:end])
		paths = paths[end:]
	}
	return chunks
}

// placeholdersFor builds a "?,?,?" placeholder string and an []any arg
// slice for an IN clause over int64 ids.
func placeholdersFor(ids []int64) (string, []any) {
	args := make([]any, len(ids))
	ph := make([]string, len(ids))
	for i, id := range ids {
		args[i] = id
		ph[i] = "?"
	}
	return strings.Join(ph, ","), args
}

// placeholdersForStrings builds a "?,?,?" placeholder string and an
// []any arg slice for an IN clause over strings.
func placeholdersForStrings(vals []string) (string, []any) {
	args := make([]any, len(vals))
	ph := make([]string, len(vals))
	for i, v := range vals {
		args[i] = v
		ph[i] = "?"
	}
	return strings.Join(ph, ","), args
}
