package game

import "math"

// Level is the difficulty for an elapsed run time: 1 for the first
// levelMs, then one more per levelMs. Non-decreasing in elapsedMs.
func Level(elapsedMs, levelMs float64) int {
	if elapsedMs < 0 || levelMs <= 0 {
		return 1
	}
	return int(math.Floor(elapsedMs/levelMs)) + 1
}

// updateDifficulty raises the level when time has crossed a boundary.
func (w *World) updateDifficulty() {
	next := Level(w.elapsed, w.cfg.Difficulty.LevelMs)
	if next > w.level {
		w.level = next
		w.emit(EventLevelUp, next, "")
	}
}
