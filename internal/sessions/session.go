package sessions

import "time"

// Session is a server-side log-in record referenced by the auth cookie.
type Session struct {
	ID        string    `json:"id" bson:"id"`
	Nickname  string    `json:"nickname" bson:"nickname"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}
