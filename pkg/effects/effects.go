// Package effects translates dispatched attempt actions into identity
// provider calls and maps each outcome back to exactly one result action.
// Repeated attempts of the same kind collapse to a single in-flight call:
// a newer attempt cancels the one before it, and a superseded call's result
// is never reported.
package effects

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
	"github.com/dd0wney/cluso-portal/pkg/identity"
	"github.com/dd0wney/cluso-portal/pkg/logging"
	"github.com/dd0wney/cluso-portal/pkg/metrics"
	"github.com/dd0wney/cluso-portal/pkg/router"
	"github.com/dd0wney/cluso-portal/pkg/tokenstore"
)

// Navigator is the slice of the router the effects need.
type Navigator interface {
	Navigate(path string, query url.Values) error
	CurrentQuery() url.Values
}

// Effects wires the store's action stream to the identity boundary.
type Effects struct {
	store   *authstate.Store
	svc     identity.Service
	tokens  *tokenstore.Store
	nav     Navigator
	logger  logging.Logger
	metrics *metrics.Registry

	mu      sync.Mutex
	flights map[string]*flight
	sub     *authstate.Subscription
	wg      sync.WaitGroup
}

// flight is one in-flight identity call. Identity of the pointer doubles as
// the in-flight token: a completion only reports if its flight is still the
// registered one for its kind.
type flight struct {
	cancel context.CancelFunc
}

// New creates the effects layer. Call Start to begin observing the store.
func New(store *authstate.Store, svc identity.Service, tokens *tokenstore.Store, nav Navigator, logger logging.Logger, reg *metrics.Registry) *Effects {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	return &Effects{
		store:   store,
		svc:     svc,
		tokens:  tokens,
		nav:     nav,
		logger:  logger.With(logging.Component("effects")),
		metrics: reg,
		flights: make(map[string]*flight),
	}
}

// Start subscribes to the store's action stream.
func (e *Effects) Start() {
	e.sub = e.store.OnAction(e.handle)
}

// Stop unsubscribes, cancels in-flight calls and waits for them to settle.
func (e *Effects) Stop() {
	if e.sub != nil {
		e.sub.Unsubscribe()
	}
	e.mu.Lock()
	for _, f := range e.flights {
		f.cancel()
	}
	e.mu.Unlock()
	e.wg.Wait()
}

// Wait blocks until every launched call has settled. Intended for tests.
func (e *Effects) Wait() {
	e.wg.Wait()
}

func (e *Effects) handle(action authstate.Action, state authstate.State) {
	e.metrics.SetSessionActive(state.IsAuthenticated)

	switch a := action.(type) {
	case authstate.Login:
		e.launch(a.Kind(), func(ctx context.Context) authstate.Action {
			session, err := e.svc.Login(ctx, a.Credentials)
			if err != nil {
				return authstate.LoginFailure{Error: errMessage(err, "Login failed")}
			}
			return authstate.LoginSuccess{User: session.User, Token: stamped(session.Token)}
		})

	case authstate.Register:
		e.launch(a.Kind(), func(ctx context.Context) authstate.Action {
			session, err := e.svc.Register(ctx, a.Fields)
			if err != nil {
				return authstate.RegisterFailure{Error: errMessage(err, "Registration failed")}
			}
			return authstate.RegisterSuccess{User: session.User, Token: stamped(session.Token)}
		})

	case authstate.Logout:
		e.launch(a.Kind(), func(ctx context.Context) authstate.Action {
			// Logout never fails from the user's perspective.
			if err := e.svc.Logout(ctx); err != nil {
				e.logger.Warn("remote logout failed, logging out locally anyway",
					logging.Error(err))
			}
			return authstate.LogoutSuccess{}
		})

	case authstate.RefreshToken:
		e.launch(a.Kind(), func(ctx context.Context) authstate.Action {
			stored, err := e.tokens.Get()
			if err != nil {
				return authstate.RefreshTokenFailure{Error: "No session to refresh"}
			}
			token, err := e.svc.RefreshToken(ctx, stored.RefreshToken)
			if err != nil {
				return authstate.RefreshTokenFailure{Error: errMessage(err, "Token refresh failed")}
			}
			return authstate.RefreshTokenSuccess{Token: stamped(*token)}
		})

	case authstate.LoadUserProfile:
		e.launch(a.Kind(), func(ctx context.Context) authstate.Action {
			user, err := e.svc.UserProfile(ctx)
			if err != nil {
				return authstate.LoadUserProfileFailure{Error: errMessage(err, "Failed to load profile")}
			}
			return authstate.LoadUserProfileSuccess{User: *user}
		})

	case authstate.CheckAuthStatus:
		e.launch(a.Kind(), func(ctx context.Context) authstate.Action {
			stored, err := e.tokens.Get()
			if err != nil || stored.Expired(time.Now()) {
				return authstate.LogoutSuccess{}
			}
			user, err := e.svc.UserProfile(ctx)
			if err != nil {
				return authstate.LogoutSuccess{}
			}
			e.metrics.SessionsRestoredTotal.Inc()
			return authstate.LoginSuccess{User: *user, Token: *stored}
		})

	case authstate.LoginSuccess:
		e.persistAndEnter(a.Token)

	case authstate.RegisterSuccess:
		e.persistAndEnter(a.Token)

	case authstate.RefreshTokenSuccess:
		if err := e.tokens.Set(a.Token); err != nil {
			e.logger.Error("failed to persist refreshed token", logging.Error(err))
		}

	case authstate.LogoutSuccess:
		if err := e.tokens.Clear(); err != nil {
			e.logger.Error("failed to clear stored token", logging.Error(err))
		}
		if err := e.nav.Navigate(router.PathLogin, nil); err != nil {
			e.logger.Error("failed to navigate to login", logging.Error(err))
		}
	}
}

// persistAndEnter stores the session token and moves the user into the
// portal: back to where they were headed if a returnUrl is pending,
// otherwise to the dashboard.
func (e *Effects) persistAndEnter(token authstate.AuthToken) {
	if err := e.tokens.Set(token); err != nil {
		e.logger.Error("failed to persist token", logging.Error(err))
	}

	target := router.PathDashboard
	if back := e.nav.CurrentQuery().Get(router.ReturnURLParam); back != "" {
		target = back
	}
	path, query := splitTarget(target)
	if err := e.nav.Navigate(path, query); err != nil {
		e.logger.Error("failed to navigate after sign-in",
			logging.Route(path), logging.Error(err))
	}
}

// launch starts the single in-flight call for kind. An attempt arriving
// while one is in flight supersedes it: the old call is cancelled and its
// result, if it still arrives, is dropped.
func (e *Effects) launch(kind string, op func(context.Context) authstate.Action) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &flight{cancel: cancel}

	e.mu.Lock()
	if prev, ok := e.flights[kind]; ok {
		prev.cancel()
		e.metrics.RecordSuperseded(kind)
		e.logger.Debug("superseding in-flight call", logging.ActionKind(kind))
	}
	e.flights[kind] = f
	e.mu.Unlock()

	e.metrics.RecordAuthAttempt(kind)
	timer := logging.StartTimer(e.logger, "identity call settled", logging.ActionKind(kind))

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()

		result := op(ctx)

		e.mu.Lock()
		current := e.flights[kind] == f
		if current {
			delete(e.flights, kind)
		}
		e.mu.Unlock()

		if !current || ctx.Err() != nil {
			// Superseded or cancelled: this result is never reported.
			return
		}

		status := "success"
		if isFailure(result) {
			status = "failure"
		}
		e.metrics.RecordAuthResult(kind, status, timer.Elapsed())
		timer.End()

		e.store.Dispatch(result)
	}()
}

func isFailure(action authstate.Action) bool {
	switch action.(type) {
	case authstate.LoginFailure, authstate.RegisterFailure,
		authstate.RefreshTokenFailure, authstate.LoadUserProfileFailure:
		return true
	}
	return false
}

// stamped records the moment the token was received when the provider did
// not supply an issuance time.
func stamped(token authstate.AuthToken) authstate.AuthToken {
	if token.IssuedAt == 0 {
		token.IssuedAt = time.Now().Unix()
	}
	return token
}

func errMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

func splitTarget(target string) (string, url.Values) {
	u, err := url.Parse(target)
	if err != nil {
		return target, nil
	}
	query, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return u.Path, nil
	}
	return u.Path, query
}
