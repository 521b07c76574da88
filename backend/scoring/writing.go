package scoring

import "math"

// OverallBand averages four analytic criterion scores and rounds the result
// to the nearest half band, ties rounding up (the IELTS convention: .25 and
// .75 round upward). Inputs are band scores in [0, 9] with 0.5 granularity;
// callers must skip the computation when any criterion is unset.
func OverallBand(taskAchievement, coherenceCohesion, lexicalResource, grammaticalRange float64) float64 {
	avg := (taskAchievement + coherenceCohesion + lexicalResource + grammaticalRange) / 4
	return math.Floor(avg*2+0.5) / 2
}
