package filetree

// Merge folds overlay into base and returns a new tree. Neither input is
// modified.
//
// For each overlay node, the first base node with the same name is replaced
// in place. Two directories merge recursively; any other pairing (file over
// file, or a type mismatch) is a full replacement by the overlay node.
// Overlay nodes with no counterpart are appended in overlay order.
func Merge(base, overlay Tree) Tree {
	merged := make(Tree, 0, len(base)+len(overlay))
	merged = append(merged, base.Clone()...)

	for _, ov := range overlay {
		idx := merged.Find(ov.Name)
		if idx < 0 {
			merged = append(merged, ov.Clone())
			continue
		}

		existing := merged[idx]
		if ov.IsDir() && existing.IsDir() {
			merged[idx] = Node{
				Kind:     KindDir,
				Name:     existing.Name,
				Source:   existing.Source,
				Origin:   existing.Origin,
				Children: Merge(existing.Children, ov.Children),
			}
			continue
		}
		merged[idx] = ov.Clone()
	}

	return merged
}

// MergeAll folds each overlay into base in order.
func MergeAll(base Tree, overlays ...Tree) Tree {
	merged := base.Clone()
	if merged == nil {
		merged = Tree{}
	}
	for _, ov := range overlays {
		merged = Merge(merged, ov)
	}
	return merged
}
