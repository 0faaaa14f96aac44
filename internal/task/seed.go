package task

import "time"

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultSeed is the starter board loaded when store seeding is enabled.
func DefaultSeed() []Task {
	return []Task{
		{
			ID:          1,
			Title:       "Setup Express Server",
			Description: "Initialize backend with routes and middleware.",
			Completed:   true,
			CreatedAt:   day("2026-02-20"),
			Priority:    PriorityHigh,
		},
		{
			ID:          2,
			Title:       "Build Carousel Component",
			Description: "Implement infinite scrolling carousel for tasks.",
			Completed:   false,
			CreatedAt:   day("2026-02-22"),
			Priority:    PriorityHigh,
		},
		{
			ID:          3,
			Title:       "Add Task Filtering",
			Description: "Filter tasks by completed and pending status.",
			Completed:   false,
			CreatedAt:   day("2026-02-24"),
			Priority:    PriorityMedium,
		},
		{
			ID:          4,
			Title:       "Style Task Cards",
			Description: "Add priority badges and hover effects.",
			Completed:   true,
			CreatedAt:   day("2026-02-25"),
			Priority:    PriorityLow,
		},
		{
			ID:          5,
			Title:       "Write API Validation",
			Description: "Validate title, description and priority fields.",
			Completed:   false,
			CreatedAt:   day("2026-02-27"),
			Priority:    PriorityMedium,
		},
	}
}
