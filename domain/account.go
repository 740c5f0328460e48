package domain

// Account is the identity of the logged-in user. It lives in memory for
// the session lifetime only.
type Account struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (a Account) Empty() bool {
	return a.Username == ""
}

// Credentials is the login form draft. Empty fields are forwarded as-is;
// the backend decides whether they are valid.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupProfile is the signup form draft.
type SignupProfile struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}
