package ordersync

import (
	"context"

	"ordersync/pkg/events"
)

// SessionState holds the authenticated user and the bootstrap readiness
// flag. AuthChecked becomes true exactly once per bootstrap and never
// reverts.
type SessionState struct {
	User        *User
	AuthChecked bool
	Loading     bool
	Error       string
}

// Bootstrap resolves the initial session. With no stored refresh credential
// it completes synchronously, without a network call. With one, the session
// is verified; an invalid or expired credential resolves to anonymous
// without surfacing an error, since an expired session on load is expected.
func (s *Store) Bootstrap(ctx context.Context) error {
	refresh, err := s.creds.RefreshToken(ctx)
	if err != nil {
		// a credential store that cannot be read yields no usable
		// credential; the check still resolves
		s.transition(ctx, events.SliceSession, "bootstrap", events.PhaseFulfilled, nil, func(st *State) {
			st.Session.AuthChecked = true
		})
		return opError(events.SliceSession, "bootstrap", err)
	}
	if refresh == "" {
		s.transition(ctx, events.SliceSession, "bootstrap", events.PhaseFulfilled, nil, func(st *State) {
			st.Session.AuthChecked = true
		})
		return nil
	}

	if s.client == nil {
		return opError(events.SliceSession, "bootstrap", ErrNoClient)
	}

	s.transition(ctx, events.SliceSession, "bootstrap", events.PhasePending, nil, func(st *State) {
		st.Session.Loading = true
	})

	user, err := s.client.VerifySession(ctx)
	if err != nil {
		s.transition(ctx, events.SliceSession, "bootstrap", events.PhaseRejected, err, func(st *State) {
			st.Session.Loading = false
			st.Session.User = nil
			st.Session.AuthChecked = true
		})
		return nil
	}

	// keep the transient mirror in step with the stored access token
	if access, err := s.creds.AccessToken(ctx); err == nil && access != "" {
		_ = s.mirror.SetAccessToken(access)
	}

	s.transition(ctx, events.SliceSession, "bootstrap", events.PhaseFulfilled, nil, func(st *State) {
		st.Session.Loading = false
		st.Session.User = &user
		st.Session.AuthChecked = true
		st.Session.Error = ""
	})
	return nil
}

// Login authenticates, persists the fresh credential pair, and sets the
// user. On failure the user is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if s.client == nil {
		return opError(events.SliceSession, "login", ErrNoClient)
	}

	s.transition(ctx, events.SliceSession, "login", events.PhasePending, nil, sessionPending)

	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return s.rejectSession(ctx, "login", err, fallbackLogin)
	}
	return s.acceptAuth(ctx, "login", result, fallbackLogin)
}

// Register creates the account, persists the fresh credential pair, and sets
// the user.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	if s.client == nil {
		return opError(events.SliceSession, "register", ErrNoClient)
	}

	s.transition(ctx, events.SliceSession, "register", events.PhasePending, nil, sessionPending)

	result, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return s.rejectSession(ctx, "register", err, fallbackRegister)
	}
	return s.acceptAuth(ctx, "register", result, fallbackRegister)
}

// UpdateUser applies a partial account update. The server's returned record
// replaces the user wholesale.
func (s *Store) UpdateUser(ctx context.Context, update UserUpdate) error {
	if s.client == nil {
		return opError(events.SliceSession, "update", ErrNoClient)
	}

	s.transition(ctx, events.SliceSession, "update", events.PhasePending, nil, sessionPending)

	user, err := s.client.UpdateUser(ctx, update)
	if err != nil {
		return s.rejectSession(ctx, "update", err, fallbackUserUpdate)
	}

	s.transition(ctx, events.SliceSession, "update", events.PhaseFulfilled, nil, func(st *State) {
		st.Session.Loading = false
		st.Session.User = &user
		st.Session.Error = ""
	})
	return nil
}

// Logout ends the session server-side, then purges both stored tokens. A
// failed logout leaves the local user in place: the server still considers
// the session valid.
func (s *Store) Logout(ctx context.Context) error {
	if s.client == nil {
		return opError(events.SliceSession, "logout", ErrNoClient)
	}

	s.transition(ctx, events.SliceSession, "logout", events.PhasePending, nil, sessionPending)

	if err := s.client.Logout(ctx); err != nil {
		return s.rejectSession(ctx, "logout", err, fallbackLogout)
	}

	purgeErr := s.creds.ClearTokens(ctx)
	_ = s.mirror.ClearAccessToken()

	s.transition(ctx, events.SliceSession, "logout", events.PhaseFulfilled, purgeErr, func(st *State) {
		st.Session.Loading = false
		st.Session.User = nil
		st.Session.Error = errorMessage(purgeErr, fallbackLogout)
	})
	if purgeErr != nil {
		return opError(events.SliceSession, "logout", purgeErr)
	}
	return nil
}

// IsAuthenticated reports whether a user is currently set.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Session.User != nil
}

func sessionPending(st *State) {
	st.Session.Loading = true
	st.Session.Error = ""
}

func (s *Store) rejectSession(ctx context.Context, op string, cause error, fallback string) error {
	msg := errorMessage(cause, fallback)
	s.transition(ctx, events.SliceSession, op, events.PhaseRejected, cause, func(st *State) {
		st.Session.Loading = false
		st.Session.Error = msg
	})
	return opError(events.SliceSession, op, cause)
}

// acceptAuth persists the fresh credential pair and sets the user. A token
// write failure rejects the whole operation: an authenticated state without
// persisted credentials would break every later authorized call.
func (s *Store) acceptAuth(ctx context.Context, op string, result AuthResult, fallback string) error {
	if err := s.creds.SetTokens(ctx, result.AccessToken, result.RefreshToken); err != nil {
		return s.rejectSession(ctx, op, err, fallback)
	}
	_ = s.mirror.SetAccessToken(result.AccessToken)

	user := result.User
	s.transition(ctx, events.SliceSession, op, events.PhaseFulfilled, nil, func(st *State) {
		st.Session.Loading = false
		st.Session.User = &user
		st.Session.Error = ""
	})
	return nil
}
