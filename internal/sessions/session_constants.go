package sessions

// The frontend reads the cookie name, changing it logs everyone out
const (
	SessionCookieName = "_cinebook_session"
	SessionCtxKey     = "cinebook_session"
)
