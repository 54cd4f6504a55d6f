package tasks

// Level thresholds: the tier a profile reaches at a given total completion
// count. Matches the reference fixtures (5 tasks is level 1, 15 is level 2,
// 35 is level 3, 300 is level 6).
var levelThresholds = [...]uint64{
	10,  // level 2
	30,  // level 3
	75,  // level 4
	150, // level 5
	300, // level 6
}

// CalculateUserLevel is the pure step function from completion count to
// level. Non-decreasing in its argument.
func CalculateUserLevel(totalTasksCompleted uint64) uint64 {
	level := uint64(1)
	for _, threshold := range levelThresholds {
		if totalTasksCompleted < threshold {
			break
		}
		level++
	}
	return level
}
