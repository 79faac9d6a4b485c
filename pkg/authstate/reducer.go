package authstate

// Reduce maps (state, action) to the next state. It is pure: the input state
// is never mutated, every branch returns a fresh value, and no branch can
// fail. Unrecognized actions produce the identity transition.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case Login, Register:
		next := state
		next.IsLoading = true
		next.Error = ""
		return next

	case LoginSuccess:
		return successState(a.User, a.Token)

	case RegisterSuccess:
		return successState(a.User, a.Token)

	case LoginFailure:
		return failureState(state, a.Error)

	case RegisterFailure:
		return failureState(state, a.Error)

	case Logout:
		next := state
		next.IsLoading = true
		return next

	case LogoutSuccess:
		return InitialState()

	case RefreshToken, LoadUserProfile, CheckAuthStatus:
		next := state
		next.IsLoading = true
		return next

	case RefreshTokenSuccess:
		token := a.Token
		next := state
		next.Token = &token
		next.IsLoading = false
		next.Error = ""
		return next

	case RefreshTokenFailure:
		next := state
		next.User = nil
		next.Token = nil
		next.IsAuthenticated = false
		next.IsLoading = false
		next.Error = a.Error
		return next

	case LoadUserProfileSuccess:
		user := a.User
		next := state
		next.User = &user
		next.IsLoading = false
		next.Error = ""
		return next

	case LoadUserProfileFailure:
		next := state
		next.IsLoading = false
		next.Error = a.Error
		return next

	default:
		return state
	}
}

func successState(user User, token AuthToken) State {
	return State{
		User:            &user,
		Token:           &token,
		IsAuthenticated: true,
		IsLoading:       false,
		Error:           "",
	}
}

func failureState(state State, message string) State {
	next := state
	next.IsLoading = false
	next.Error = message
	next.IsAuthenticated = false
	return next
}
