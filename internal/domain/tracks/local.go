package tracks

// localTracks is the fixed fallback set shipped with the site. These survive
// a merge only when their ID does not collide with a remote track's ID.
func localTracks() []Track {
	return []Track{
		{
			ID:          "track1",
			Title:       "صوت الحرية",
			Artist:      "F90 Studio",
			Duration:    "3:45",
			Thumbnail:   "resources/studio-hero.jpg",
			ExternalRef: "dQw4w9WgXcQ",
			Rating:      4.8,
			Plays:       1250,
			Origin:      OriginLocal,
		},
		{
			ID:          "track2",
			Title:       "ليلة هادئة",
			Artist:      "F90 Studio",
			Duration:    "4:12",
			Thumbnail:   "resources/vocal-booth.jpg",
			ExternalRef: "dQw4w9WgXcQ",
			Rating:      4.6,
			Plays:       980,
			Origin:      OriginLocal,
		},
		{
			ID:          "track3",
			Title:       "أحلام واقعية",
			Artist:      "F90 Studio",
			Duration:    "3:28",
			Thumbnail:   "resources/mixing-console.jpg",
			ExternalRef: "dQw4w9WgXcQ",
			Rating:      4.9,
			Plays:       2100,
			Origin:      OriginLocal,
		},
		{
			ID:          "track4",
			Title:       "نبض المدينة",
			Artist:      "F90 Studio",
			Duration:    "3:56",
			Thumbnail:   "resources/studio-monitors.jpg",
			ExternalRef: "dQw4w9WgXcQ",
			Rating:      4.7,
			Plays:       1580,
			Origin:      OriginLocal,
		},
		{
			ID:          "track5",
			Title:       "فجر جديد",
			Artist:      "F90 Studio",
			Duration:    "4:33",
			Thumbnail:   "resources/studio-equipment.jpg",
			ExternalRef: "dQw4w9WgXcQ",
			Rating:      4.5,
			Plays:       750,
			Origin:      OriginLocal,
		},
		{
			ID:          "track6",
			Title:       "ذكريات لا تموت",
			Artist:      "F90 Studio",
			Duration:    "3:18",
			Thumbnail:   "resources/studio-hero.jpg",
			ExternalRef: "dQw4w9WgXcQ",
			Rating:      4.8,
			Plays:       1890,
			Origin:      OriginLocal,
		},
	}
}
