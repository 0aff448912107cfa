package studio

// Studio is a physical business location, the scoping dimension for all
// trainee data. The list is read-only from the gateway's perspective.
type Studio struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// User is a trainee belonging to a studio.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	StudioID string `json:"studio_id,omitempty"`
}

// FallbackStudios is the fixed placeholder set served when the studio list
// fetch fails with a not-found or server-error status, keeping the
// dashboard usable during backend rollout gaps.
func FallbackStudios() []Studio {
	return []Studio{
		{ID: "studio-1", Name: "Studio 1"},
		{ID: "studio-2", Name: "Studio 2"},
		{ID: "studio-3", Name: "Studio 3"},
	}
}
