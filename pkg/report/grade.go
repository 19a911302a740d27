package report

// Grade is the discrete letter derived from the weighted overall score.
type Grade struct {
	Letter      string  `json:"letter"`
	MinScore    float64 `json:"min_score"`
	MaxScore    float64 `json:"max_score"`
	Description string  `json:"description"`
}

// GradeScale lists the grade bands, highest first. Bands are closed-open
// except the top one: exactly 90.0 grades A, 89.999 grades B.
var GradeScale = []Grade{
	{Letter: "A", MinScore: 90, MaxScore: 100, Description: "Production ready"},
	{Letter: "B", MinScore: 70, MaxScore: 90, Description: "Minor fixes needed"},
	{Letter: "C", MinScore: 50, MaxScore: 70, Description: "Moderate revision"},
	{Letter: "D", MinScore: 30, MaxScore: 50, Description: "Major revision"},
	{Letter: "F", MinScore: 0, MaxScore: 30, Description: "Rewrite needed"},
}

// GradeFromScore maps a 0-100 score to its band. Scores at or above 100
// grade A; negative scores grade F.
func GradeFromScore(score float64) Grade {
	for _, g := range GradeScale {
		if score >= g.MinScore {
			return g
		}
	}
	return GradeScale[len(GradeScale)-1]
}
