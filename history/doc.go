// Package history records reversible tile edits.
//
// A gesture is opened with Begin, fed with Accumulate (or Replace for shape
// previews) and closed with Commit or Discard. Nothing touches a grid until
// Commit, so every reader sees either the pre-gesture or post-commit state.
// Commit records the cell values as they were when the gesture began, which
// lets a single Undo revert a whole drag.
//
//	s := history.NewStack(0)
//	s.Begin(layerID, "pencil")
//	s.Accumulate(writes)
//	cmd, err := s.Commit(layers)
//	res, err := s.Undo(layers)
//
// Commands refer to layers by id. Undoing a command whose layer has been
// removed is skipped with Result.Warning set, and the history still moves.
package history
