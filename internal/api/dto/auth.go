package dto

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username" openapi:"required"`
	Password string `json:"password" openapi:"required,writeOnly"`
}

// DecodeLogin requires both credentials; the password is not trimmed.
func DecodeLogin(body []byte) (LoginRequest, error) {
	fields, err := ParseFields(body)
	if err != nil {
		return LoginRequest{}, err
	}
	r := newReader(fields, true)
	username := r.text("username", true)
	password := r.text("password", false)
	if err := r.errs.Err(); err != nil {
		return LoginRequest{}, err
	}
	return LoginRequest{Username: *username, Password: *password}, nil
}

// RefreshRequest carries a refresh token, for refresh and blacklist calls.
type RefreshRequest struct {
	Refresh string `json:"refresh" openapi:"required,writeOnly"`
}

// DecodeRefresh requires the refresh token.
func DecodeRefresh(body []byte) (RefreshRequest, error) {
	fields, err := ParseFields(body)
	if err != nil {
		return RefreshRequest{}, err
	}
	r := newReader(fields, true)
	refresh := r.text("refresh", true)
	if err := r.errs.Err(); err != nil {
		return RefreshRequest{}, err
	}
	return RefreshRequest{Refresh: *refresh}, nil
}

// TokenPairResponse is returned by login.
type TokenPairResponse struct {
	Access  string `json:"access" openapi:"readOnly"`
	Refresh string `json:"refresh" openapi:"readOnly"`
}

// AccessTokenResponse is returned by refresh.
type AccessTokenResponse struct {
	Access string `json:"access" openapi:"readOnly"`
}
