package models

import "time"

// RefreshToken is a server-stored opaque token that can be exchanged for a
// new token pair. Tokens are rotated on every refresh.
type RefreshToken struct {
	Token   string
	UserID  string
	Expires time.Time
}
