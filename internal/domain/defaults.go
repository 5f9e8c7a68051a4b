package domain

// SeedCatalog is the default catalog installed for a newly registered school.
// Training types and levels are matched to requirements by code and rank so
// callers can assign IDs at insert time.
type SeedCatalog struct {
	TrainingTypes []SeedTrainingType
	Levels        []SeedLevel
}

type SeedTrainingType struct {
	Code      string
	Name      string
	Category  string
	RankOrder int
}

type SeedLevel struct {
	Name         string
	Rank         int
	Color        string
	Requirements []SeedRequirement
}

// SeedRequirement references a training type by code; RankOrder follows the
// slice position.
type SeedRequirement struct {
	TrainingTypeCode string
	RequiredCount    int
}

// DefaultCatalog returns the progression config new schools start with. It
// mirrors the catalog the platform shipped before schools could configure
// their own: five levels, group classes and an exam per level, and a set of
// workshop prerequisites for the dog license.
func DefaultCatalog() SeedCatalog {
	return SeedCatalog{
		TrainingTypes: []SeedTrainingType{
			{Code: "group_class", Name: "Group Class", Category: "training", RankOrder: 1},
			{Code: "social_walk", Name: "Social Walk", Category: "training", RankOrder: 2},
			{Code: "restaurant_training", Name: "Restaurant Training", Category: "training", RankOrder: 3},
			{Code: "lecture_bonding", Name: "Lecture: Bonding & Relationship", Category: "lecture", RankOrder: 4},
			{Code: "lecture_hunting", Name: "Lecture: Hunting Behavior", Category: "lecture", RankOrder: 5},
			{Code: "ws_communication", Name: "Workshop: Communication & Body Language", Category: "workshop", RankOrder: 6},
			{Code: "ws_stress", Name: "Workshop: Stress & Impulse Control", Category: "workshop", RankOrder: 7},
			{Code: "theory_license", Name: "Theory Evening: Dog License", Category: "lecture", RankOrder: 8},
			{Code: "first_aid", Name: "First Aid Course", Category: "workshop", RankOrder: 9},
			{Code: "exam", Name: "Exam", Category: "exam", RankOrder: 10},
		},
		Levels: []SeedLevel{
			{Name: "Puppy", Rank: 1, Color: "#FACC15"},
			{Name: "Beginner", Rank: 2, Color: "#4ADE80", Requirements: []SeedRequirement{
				{TrainingTypeCode: "group_class", RequiredCount: 6},
				{TrainingTypeCode: "exam", RequiredCount: 1},
			}},
			{Name: "Advanced", Rank: 3, Color: "#38BDF8", Requirements: []SeedRequirement{
				{TrainingTypeCode: "group_class", RequiredCount: 6},
				{TrainingTypeCode: "exam", RequiredCount: 1},
			}},
			{Name: "Expert", Rank: 4, Color: "#A78BFA", Requirements: []SeedRequirement{
				{TrainingTypeCode: "social_walk", RequiredCount: 6},
				{TrainingTypeCode: "restaurant_training", RequiredCount: 2},
				{TrainingTypeCode: "exam", RequiredCount: 1},
			}},
			{Name: "Dog License", Rank: 5, Color: "#F87171", Requirements: []SeedRequirement{
				{TrainingTypeCode: "lecture_bonding", RequiredCount: 1},
				{TrainingTypeCode: "lecture_hunting", RequiredCount: 1},
				{TrainingTypeCode: "ws_communication", RequiredCount: 1},
				{TrainingTypeCode: "ws_stress", RequiredCount: 1},
				{TrainingTypeCode: "theory_license", RequiredCount: 1},
				{TrainingTypeCode: "first_aid", RequiredCount: 1},
				{TrainingTypeCode: "exam", RequiredCount: 1},
			}},
		},
	}
}
