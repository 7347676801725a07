package services

import (
	"github.com/gorilla/securecookie"
)

// Nonces issues anti-forgery tokens bound to an action and a user.
type Nonces struct {
	sc *securecookie.SecureCookie
}

func NewNonces(secret []byte) *Nonces {
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	sc := securecookie.New(secret, nil)
	sc.MaxAge(24 * 60 * 60)
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Nonces{sc: sc}
}

func (n *Nonces) Create(action, user string) string {
	token, err := n.sc.Encode(action, user)
	if err != nil {
		return ""
	}
	return token
}

func (n *Nonces) Verify(token, action, user string) bool {
	if token == "" || user == "" {
		return false
	}
	var got string
	if err := n.sc.Decode(action, token, &got); err != nil {
		return false
	}
	return got == user
}
