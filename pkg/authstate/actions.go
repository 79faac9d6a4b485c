package authstate

// Action is a discrete description of an intended state transition. The set
// of implementations below is closed; Kind doubles as the sealed marker and
// gives effects, logging and metrics a stable name per action.
type Action interface {
	Kind() string
}

// LoginCredentials are the fields submitted by the login form.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterFields are the fields submitted by the registration form.
type RegisterFields struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Login starts a credential login attempt.
type Login struct {
	Credentials LoginCredentials
}

// LoginSuccess carries the identity and token of a successful login.
type LoginSuccess struct {
	User  User
	Token AuthToken
}

// LoginFailure carries the failure message of a rejected login.
type LoginFailure struct {
	Error string
}

// Logout starts a logout attempt.
type Logout struct{}

// LogoutSuccess resets the session; logout always succeeds locally.
type LogoutSuccess struct{}

// Register starts a registration attempt.
type Register struct {
	Fields RegisterFields
}

// RegisterSuccess carries the identity and token of a successful registration.
type RegisterSuccess struct {
	User  User
	Token AuthToken
}

// RegisterFailure carries the failure message of a rejected registration.
type RegisterFailure struct {
	Error string
}

// RefreshToken starts a token refresh attempt.
type RefreshToken struct{}

// RefreshTokenSuccess replaces the session token.
type RefreshTokenSuccess struct {
	Token AuthToken
}

// RefreshTokenFailure invalidates the session.
type RefreshTokenFailure struct {
	Error string
}

// LoadUserProfile starts a profile fetch.
type LoadUserProfile struct{}

// LoadUserProfileSuccess replaces the session user.
type LoadUserProfileSuccess struct {
	User User
}

// LoadUserProfileFailure carries the failure message of a profile fetch.
type LoadUserProfileFailure struct {
	Error string
}

// CheckAuthStatus restores a session from persisted state on startup.
type CheckAuthStatus struct{}

func (Login) Kind() string                  { return "login" }
func (LoginSuccess) Kind() string           { return "login_success" }
func (LoginFailure) Kind() string           { return "login_failure" }
func (Logout) Kind() string                 { return "logout" }
func (LogoutSuccess) Kind() string          { return "logout_success" }
func (Register) Kind() string               { return "register" }
func (RegisterSuccess) Kind() string        { return "register_success" }
func (RegisterFailure) Kind() string        { return "register_failure" }
func (RefreshToken) Kind() string           { return "refresh_token" }
func (RefreshTokenSuccess) Kind() string    { return "refresh_token_success" }
func (RefreshTokenFailure) Kind() string    { return "refresh_token_failure" }
func (LoadUserProfile) Kind() string        { return "load_user_profile" }
func (LoadUserProfileSuccess) Kind() string { return "load_user_profile_success" }
func (LoadUserProfileFailure) Kind() string { return "load_user_profile_failure" }
func (CheckAuthStatus) Kind() string        { return "check_auth_status" }
