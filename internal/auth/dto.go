package auth

// UserSession is the authenticated identity bound to the browsing
// context. It never carries credential material; the durable snapshot
// serializes exactly these fields.
type UserSession struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
