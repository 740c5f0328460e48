package domain

// BearerScheme is the fixed prefix every stored token carries.
const BearerScheme = "Bearer "

// TokenPair holds the two bearer tokens issued by the backend on login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// BearerPair builds a TokenPair with the scheme prefix applied to both
// raw tokens, the form in which they are persisted.
func BearerPair(access, refresh string) TokenPair {
	return TokenPair{
		AccessToken:  BearerScheme + access,
		RefreshToken: BearerScheme + refresh,
	}
}

func (t TokenPair) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}
