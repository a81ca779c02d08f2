package domain

type Muscle string

// Muscles is the fixed list of muscle groups that carry workout videos.
var Muscles = []Muscle{
	"chest", "tricepts", "shoulder", "back", "biceps", "legs", "abs", "forearms", "cardio", "glutes", "calves",
}

func IsKnownMuscle(m Muscle) bool {
	for _, k := range Muscles {
		if k == m {
			return true
		}
	}
	return false
}
