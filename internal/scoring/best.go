package scoring

// SelectBestMatch returns the course with the highest match score.
// Ties go to the lexicographically smallest course ID so the result never
// depends on map iteration order. ok is false when matches is empty.
func SelectBestMatch(matches map[string]int) (courseID string, score int, ok bool) {
	for id, s := range matches {
		if !ok || s > score || (s == score && id < courseID) {
			courseID, score, ok = id, s, true
		}
	}
	return courseID, score, ok
}
