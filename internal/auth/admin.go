package auth

import "crypto/subtle"

// AdminAuthenticator verifies the header credentials guarding the admin
// surface. Injected as a capability so deployments can back it with env
// secrets, hashed storage, or a real identity provider.
type AdminAuthenticator interface {
	Verify(phone, password string) bool
}

type StaticAdmin struct {
	phone    string
	password string
}

func NewStaticAdmin(phone, password string) *StaticAdmin {
	return &StaticAdmin{phone: phone, password: password}
}

// Verify compares both values in constant time. An empty configured password
// disables the admin surface outright.
func (a *StaticAdmin) Verify(phone, password string) bool {
	if a.password == "" {
		return false
	}
	p := subtle.ConstantTimeCompare([]byte(a.phone), []byte(phone))
	w := subtle.ConstantTimeCompare([]byte(a.password), []byte(password))
	return p&w == 1
}
