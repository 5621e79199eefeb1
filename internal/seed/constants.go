package seed

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Generation constants.
const (
	unknownBirthDateShare = 0.05
	historyLength         = 4
	heightSampleMonths    = 6
)

var (
	squads    = []string{"U12", "U14", "U16", "U18"}
	coaches   = []string{"Kim", "Lee", "Diaz", "Okafor", "Novak"}
	positions = []string{"PG", "SG", "SF", "PF", "C"}
	firsts    = []string{"Ada", "Ben", "Cleo", "Dario", "Elif", "Femi", "Gus", "Hana", "Ivo", "Jae", "Kira", "Luca", "Mina", "Nils", "Omar", "Pia"}
	lasts     = []string{"Ahn", "Brandt", "Costa", "Duarte", "Eze", "Fischer", "Garcia", "Haddad", "Ito", "Jensen", "Kowal", "Lindqvist"}

	decisionTemplates = []string{
		"Add recovery day after back-to-back games",
		"Move U14 practice to the main court",
		"Introduce film session for guards",
		"Review load plan for growth-spurt athletes",
		"Schedule parent meeting on selection policy",
		"Rotate captains monthly",
		"Book strength coach for off-season",
		"Audit injury reporting workflow",
	}
	clubNames = []string{"North Hoops", "Harbor Elite", "Eastside BC", "Riverside Academy", "Summit Youth", "Old Town Ballers"}

	// clubCategories carries the default reputation weights.
	clubCategories = []struct {
		name   string
		weight float64
	}{
		{"coaching", 0.5},
		{"facilities", 0.3},
		{"community", 0.2},
	}
)
