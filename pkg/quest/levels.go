package quest

// Level thresholds sit every 100 zen points, capped at Master.
var levelNames = []string{"Beginner", "Novice", "Apprentice", "Adept", "Master"}

// LevelNumber maps a zen point balance to a numeric level in [0,4].
func LevelNumber(points int) int {
	if points < 0 {
		points = 0
	}
	n := points / 100
	if n > len(levelNames)-1 {
		n = len(levelNames) - 1
	}
	return n
}

// LevelName maps a zen point balance to its rank title.
func LevelName(points int) string {
	return levelNames[LevelNumber(points)]
}
