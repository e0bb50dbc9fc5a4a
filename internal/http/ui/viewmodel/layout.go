package viewmodel

// User represents the signed-in user exposed to templates.
type User struct {
	Name  string
	Email string
}

// Layout captures shared chrome metadata (titles, auth state).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	IsAuthenticated bool
	UserID          string
	User            *User
}
