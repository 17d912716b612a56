// Package matching implements the four-phase duplicate-grouping
// pipeline: exact content hash, EXIF triangulation, perceptual-only
// fallback via a BK-tree, and confidence-gated group merging.
package matching

import (
	"sort"

	"github.com/jterrazz/photopack/internal/model"
	"github.com/jterrazz/photopack/internal/perceptualhash"
)

// MatchGroup is one raw duplicate group produced by the matcher, before
// SoT election.
type MatchGroup struct {
	MemberIDs  []int64
	Confidence model.Confidence
}

type rawGroup struct {
	members    map[int64]bool
	confidence model.Confidence
}

func (g rawGroup) sortedIDs() []int64 {
	ids := make([]int64, 0, len(g.members))
	for id := range g.members {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Match runs the full pipeline over the given photo list and returns
// the final merged groups, each with >= 2 members.
func Match(photos []model.Photo) []MatchGroup {
	byID := make(map[int64]model.Photo, len(photos))
	for _, p := range photos {
		byID[p.ID] = p
	}

	var emitted []rawGroup
	emitted = append(emitted, sortGroups(phase1ExactContent(photos))...)

	phase1Union := unionMembers(emitted)
	emitted = append(emitted, sortGroups(phase2ExifTriangulation(photos, phase1Union))...)

	phase12Union := unionMembers(emitted)
	emitted = append(emitted, phase3Perceptual(photos, phase12Union)...)

	merged := phase4Merge(emitted, byID)

	out := make([]MatchGroup, 0, len(merged))
	for _, g := range merged {
		if len(g.members) < 2 {
			continue
		}
		out = append(out, MatchGroup{MemberIDs: g.sortedIDs(), Confidence: g.confidence})
	}
	return out
}

// sortGroups orders groups deterministically (by smallest member id, then
// by full sorted member list) so that Phase 4's merge order — and thus
// its output — does not depend on Go's randomized map iteration order.
func sortGroups(groups []rawGroup) []rawGroup {
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].sortedIDs(), groups[j].sortedIDs()
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return groups
}

func unionMembers(groups []rawGroup) map[int64]bool {
	u := make(map[int64]bool)
	for _, g := range groups {
		for id := range g.members {
			u[id] = true
		}
	}
	return u
}

// phase1ExactContent partitions photos by sha256; every partition of
// size >= 2 becomes a Certain-confidence group.
func phase1ExactContent(photos []model.Photo) []rawGroup {
	bySha := make(map[string][]int64)
	for _, p := range photos {
		bySha[p.SHA256] = append(bySha[p.SHA256], p.ID)
	}

	var groups []rawGroup
	for _, ids := range bySha {
		if len(ids) < 2 {
			continue
		}
		members := make(map[int64]bool, len(ids))
		for _, id := range ids {
			members[id] = true
		}
		groups = append(groups, rawGroup{members: members, confidence: model.Certain})
	}
	return groups
}

type exifKey struct {
	date  string
	model string
}

// phase2ExifTriangulation partitions by (exif.date, exif.camera_model or
// "unknown"), ignoring photos without an EXIF date, then runs strict
// dual-hash validation within each partition.
func phase2ExifTriangulation(photos []model.Photo, _ map[int64]bool) []rawGroup {
	byKey := make(map[exifKey][]model.Photo)
	for _, p := range photos {
		if p.Exif == nil || p.Exif.Date == nil {
			continue
		}
		key := exifKey{date: *p.Exif.Date, model: p.Exif.CameraModelOrUnknown()}
		byKey[key] = append(byKey[key], p)
	}

	var groups []rawGroup
	for _, partition := range byKey {
		if len(partition) < 2 {
			continue
		}
		groups = append(groups, phase2Partition(partition)...)
	}
	return groups
}

func phase2Partition(partition []model.Photo) []rawGroup {
	// Count how many partition members have a phash, to know whether a
	// given photo has any comparison partner at all.
	phashCount := 0
	for _, p := range partition {
		if p.PHash != nil {
			phashCount++
		}
	}

	valid := make(map[int64]bool) // set V: ids participating in >=1 valid pair
	for i := 0; i < len(partition); i++ {
		a := partition[i]
		if a.PHash == nil {
			continue
		}
		for j := 0; j < len(partition); j++ {
			if i == j {
				continue
			}
			b := partition[j]
			if b.PHash == nil {
				continue
			}
			phashDist := perceptualhash.Hamming(*a.PHash, *b.PHash)
			if phashDist > model.NearCertainThreshold {
				continue
			}
			if a.DHash != nil && b.DHash != nil {
				dhashDist := perceptualhash.Hamming(*a.DHash, *b.DHash)
				if dhashDist > model.NearCertainThreshold {
					continue
				}
			}
			valid[a.ID] = true
			valid[b.ID] = true
		}
	}

	members := make(map[int64]bool)
	for _, p := range partition {
		switch {
		case valid[p.ID]:
			members[p.ID] = true
		case p.PHash == nil:
			members[p.ID] = true
		case phashCount == 1:
			// has phash but no partner to compare against
			members[p.ID] = true
		}
	}

	if len(members) < 2 {
		return nil
	}

	confidence := model.NearCertain
	if len(valid) >= 2 {
		confidence = model.High
	}
	return []rawGroup{{members: members, confidence: confidence}}
}

// phase3Perceptual builds a BK-tree over every photo with a phash
// (including already-grouped ones, which act as bridge neighbors) and,
// for every ungrouped photo with a phash, looks for dual-hash-validated
// neighbors within the probable threshold.
func phase3Perceptual(photos []model.Photo, grouped map[int64]bool) []rawGroup {
	byID := make(map[int64]model.Photo, len(photos))
	tree := newBKTree()
	for _, p := range photos {
		byID[p.ID] = p
		if p.PHash != nil {
			tree.Insert(*p.PHash, p.ID)
		}
	}

	// Iterate in a stable order for determinism.
	ordered := make([]model.Photo, len(photos))
	copy(ordered, photos)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	placed := make(map[int64]bool)
	var groups []rawGroup

	for _, a := range ordered {
		if grouped[a.ID] || a.PHash == nil {
			continue
		}
		if placed[a.ID] {
			continue
		}

		candidates := tree.FindWithin(*a.PHash, model.ProbableThreshold)
		type accepted struct {
			id   int64
			conf model.Confidence
		}
		var acceptedList []accepted

		for _, nID := range candidates {
			if nID == a.ID || placed[nID] {
				continue
			}
			n := byID[nID]

			phashDist := perceptualhash.Hamming(*a.PHash, *n.PHash)
			phashConf, ok := model.ConfidenceFromHamming(phashDist)
			if !ok {
				continue
			}

			var combined model.Confidence
			if a.DHash != nil && n.DHash != nil {
				dhashDist := perceptualhash.Hamming(*a.DHash, *n.DHash)
				dhashConf, ok2 := model.ConfidenceFromHamming(dhashDist)
				if !ok2 {
					continue
				}
				combined = model.MinConfidence(phashConf, dhashConf)
			} else {
				if phashDist > model.HighThreshold {
					continue
				}
				combined = phashConf
			}

			acceptedList = append(acceptedList, accepted{id: nID, conf: combined})
		}

		if len(acceptedList) == 0 {
			continue
		}

		members := map[int64]bool{a.ID: true}
		conf := acceptedList[0].conf
		for _, acc := range acceptedList {
			members[acc.id] = true
			conf = model.MinConfidence(conf, acc.conf)
		}

		placed[a.ID] = true
		for _, acc := range acceptedList {
			placed[acc.id] = true
		}

		groups = append(groups, rawGroup{members: members, confidence: conf})
	}

	return groups
}

// phase4Merge folds overlapping groups together, gated by a cross-group
// visual-similarity check so a single bridge photo can't cascade
// unrelated groups into one mega-group.
func phase4Merge(emitted []rawGroup, byID map[int64]model.Photo) []rawGroup {
	var merged []rawGroup

	for _, g := range emitted {
		var overlapping []int
		for i, m := range merged {
			if setsOverlap(g.members, m.members) {
				overlapping = append(overlapping, i)
			}
		}

		var validTargets []int
		for _, i := range overlapping {
			if validateCrossGroup(g, merged[i], byID) {
				validTargets = append(validTargets, i)
			}
		}

		if len(validTargets) == 0 {
			merged = append(merged, rawGroup{members: copySet(g.members), confidence: g.confidence})
			continue
		}

		combined := copySet(g.members)
		conf := g.confidence
		remove := make(map[int]bool, len(validTargets))
		for _, i := range validTargets {
			for id := range merged[i].members {
				combined[id] = true
			}
			conf = model.MinConfidence(conf, merged[i].confidence)
			remove[i] = true
		}

		var next []rawGroup
		for i, m := range merged {
			if !remove[i] {
				next = append(next, m)
			}
		}
		next = append(next, rawGroup{members: combined, confidence: conf})
		merged = next
	}

	return merged
}

func validateCrossGroup(g, e rawGroup, byID map[int64]model.Photo) bool {
	newExcl := difference(g.members, e.members)
	existingExcl := difference(e.members, g.members)

	if len(newExcl) == 0 || len(existingExcl) == 0 {
		return true
	}

	newWithPhash := withPhash(newExcl, byID)
	existingWithPhash := withPhash(existingExcl, byID)

	if len(newWithPhash) == 0 && len(existingWithPhash) == 0 {
		return true
	}

	for _, x := range newWithPhash {
		for _, y := range existingWithPhash {
			if perceptualhash.Hamming(*x.PHash, *y.PHash) <= model.ProbableThreshold {
				return true
			}
		}
	}
	return false
}

func withPhash(ids map[int64]bool, byID map[int64]model.Photo) []model.Photo {
	var out []model.Photo
	for id := range ids {
		if p := byID[id]; p.PHash != nil {
			out = append(out, p)
		}
	}
	return out
}

func setsOverlap(a, b map[int64]bool) bool {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	for id := range small {
		if large[id] {
			return true
		}
	}
	return false
}

func difference(a, b map[int64]bool) map[int64]bool {
	out := make(map[int64]bool)
	for id := range a {
		if !b[id] {
			out[id] = true
		}
	}
	return out
}

func copySet(a map[int64]bool) map[int64]bool {
	out := make(map[int64]bool, len(a))
	for id := range a {
		out[id] = true
	}
	return out
}
