package project

// Identity resolution maps a stable effect id to its current array position.
// Any caller that captured a position before a reorder may have happened must
// re-resolve by id immediately before constructing a command; a position
// captured earlier and reused without re-resolution is a stale-index bug.

// IndexOfEffect returns the current position of the top-level effect with the
// given id.
func (s *State) IndexOfEffect(effectID string) (int, bool) {
	for i, e := range s.effects {
		if e != nil && e.ID == effectID {
			return i, true
		}
	}
	return 0, false
}

// IndexOfSecondary returns the current position of the secondary effect with
// the given id under the parent at parentIndex.
func (s *State) IndexOfSecondary(parentIndex int, effectID string) (int, bool) {
	parent, ok := s.EffectAt(parentIndex)
	if !ok {
		return 0, false
	}
	for i, child := range parent.SecondaryEffects {
		if child != nil && child.ID == effectID {
			return i, true
		}
	}
	return 0, false
}

// IndexOfKeyframe returns the current position of the keyframe effect with
// the given id under the parent at parentIndex.
func (s *State) IndexOfKeyframe(parentIndex int, effectID string) (int, bool) {
	parent, ok := s.EffectAt(parentIndex)
	if !ok {
		return 0, false
	}
	for i, child := range parent.KeyframeEffects {
		if child != nil && child.ID == effectID {
			return i, true
		}
	}
	return 0, false
}
