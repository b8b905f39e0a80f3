package legacy

const unsplash = "https://images.unsplash.com/"

// DefaultEvents is the catalogue the local store starts with.
func DefaultEvents() []Event {
	return []Event{
		{ID: "evt1", Name: "Annual Tech Symposium", Description: "A day-long technical symposium featuring workshops, coding competitions, and tech talks.", Date: "2025-01-15", Time: "09:00", Venue: "Main Auditorium", Image: unsplash + "photo-1540575467063-178a50c2df87?auto=format&fit=crop&w=800", Capacity: 200},
		{ID: "evt2", Name: "Cultural Fest 2025", Description: "Annual cultural festival with music, dance, and theatrical performances.", Date: "2025-02-20", Time: "10:00", Venue: "College Ground", Image: unsplash + "photo-1514525253161-7a46d19cd819?auto=format&fit=crop&w=800", Capacity: 500},
		{ID: "evt3", Name: "Winter Sports Meet", Description: "Inter-college sports competition featuring various indoor and outdoor games.", Date: "2025-10-05", Time: "08:00", Venue: "Sports Complex", Image: unsplash + "photo-1461896836934-ffe607ba8211?auto=format&fit=crop&w=800", Capacity: 300},
		{ID: "evt4", Name: "Career Fair 2025", Description: "Connect with top companies and explore career opportunities.", Date: "2025-03-10", Time: "11:00", Venue: "Conference Center", Image: unsplash + "photo-1560523159-4a9692d222ef?auto=format&fit=crop&w=800", Capacity: 400},
		{ID: "evt5", Name: "New Year Celebration", Description: "Welcome 2025 with music, food, and festivities.", Date: "2025-01-01", Time: "20:00", Venue: "College Ground", Image: unsplash + "photo-1467810563316-b5476525c0f9?auto=format&fit=crop&w=800", Capacity: 1000},
		{ID: "evt6", Name: "AI & Machine Learning Workshop", Description: "Hands-on workshop on artificial intelligence and machine learning fundamentals.", Date: "2025-02-28", Time: "14:00", Venue: "Computer Lab Complex", Image: unsplash + "photo-1485827404703-89b55fcc595e?auto=format&fit=crop&w=800", Capacity: 100},
		{ID: "evt7", Name: "Alumni Meet 2025", Description: "Annual gathering of college alumni sharing experiences and networking.", Date: "2025-01-25", Time: "16:00", Venue: "College Banquet Hall", Image: unsplash + "photo-1511632765486-a01980e01a18?auto=format&fit=crop&w=800", Capacity: 250},
		{ID: "evt8", Name: "Environmental Awareness Drive", Description: "Campus-wide initiative for environmental conservation and sustainability.", Date: "2025-03-22", Time: "09:30", Venue: "Botanical Garden", Image: unsplash + "photo-1492496913980-501348b61469?auto=format&fit=crop&w=800", Capacity: 150},
		{ID: "evt9", Name: "Entrepreneurship Summit", Description: "Meet successful entrepreneurs and learn about startup opportunities.", Date: "2025-04-05", Time: "10:00", Venue: "Business School Auditorium", Image: unsplash + "photo-1475721027785-f74eccf877e2?auto=format&fit=crop&w=800", Capacity: 300},
		{ID: "evt10", Name: "Spring Music Festival", Description: "A day of live music performances featuring college bands and professional artists.", Date: "2025-03-15", Time: "17:00", Venue: "Open Air Theater", Image: unsplash + "photo-1459749411175-04bf5292ceea?auto=format&fit=crop&w=800", Capacity: 600},
	}
}
