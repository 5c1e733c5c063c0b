package domain

import "time"

// User is a registered account on the server
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserInfo is the public part of a user
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Session is the client's current authentication
type Session struct {
	Token    string
	Username string
}

// Valid reports whether both halves of the session are present
func (s Session) Valid() bool {
	return s.Token != "" && s.Username != ""
}

// IsLocal reports whether the token was minted by the local registry
func (s Session) IsLocal() bool {
	return IsLocalID(s.Token)
}

// UserState represents a bot user's current interaction state
type UserState string

const (
	StateIdle            UserState = "idle"
	StateWaitingMeaning  UserState = "waiting_meaning"
	StateWaitingUsername UserState = "waiting_username"
	StateWaitingPassword UserState = "waiting_password"
	StateWaitingTitle    UserState = "waiting_title"
)

// AuthMode selects which credential action a bot dialog performs
type AuthMode string

const (
	AuthLogin    AuthMode = "login"
	AuthRegister AuthMode = "register"
)

// StateData holds temporary data for user's current state
type StateData struct {
	State     UserState
	AuthMode  AuthMode
	Username  string
	WordIndex int
}
