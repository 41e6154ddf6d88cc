package view

import (
	"context"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tylerpac/solace-client/authapi"
	"github.com/tylerpac/solace-client/internal/apierrors"
	"github.com/tylerpac/solace-client/protected"
	"github.com/tylerpac/solace-client/session"
	"github.com/tylerpac/solace-client/shop"
)

// VerifyEmailPath is the path a verification link from the backend lands on.
const VerifyEmailPath = "/verify-email"

const (
	initialStatus        = "Enter a username and password to sign up or log in."
	protectedPlaceholder = "No protected request made yet."
	sessionExpiredStatus = "Session expired. Please log in again."
	sessionInvalidStatus = "Session is invalid or expired. Please sign in again."
)

// Deps holds the router's collaborators.
type Deps struct {
	Store     *session.Store
	Auth      *authapi.Gateway
	Shop      *shop.Controller
	Protected *protected.Client
}

// Router is the top-level orchestrator: it owns the routing state and the
// status line, reacts to session events and startup URL signals, and
// dispatches user actions into the gateways. Every operation outcome lands in
// the status line; the only error with a state side effect beyond messaging
// is a 401 on a protected call, which clears the session.
type Router struct {
	deps Deps

	lock          sync.Mutex
	state         State
	status        string
	protectedData string
	snapshot      shop.Snapshot
}

// NewRouter creates a Router at the home view.
func NewRouter(deps Deps) (*Router, error) {
	if deps.Store == nil {
		return nil, errors.New("[NewRouter] Store is required")
	}
	if deps.Auth == nil {
		return nil, errors.New("[NewRouter] Auth gateway is required")
	}
	if deps.Shop == nil {
		return nil, errors.New("[NewRouter] Shop controller is required")
	}
	if deps.Protected == nil {
		return nil, errors.New("[NewRouter] Protected client is required")
	}
	return &Router{
		deps:          deps,
		status:        initialStatus,
		protectedData: protectedPlaceholder,
	}, nil
}

// State returns the current routing state value.
func (r *Router) State() State {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state
}

// Status returns the current status line.
func (r *Router) Status() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.status
}

// ProtectedData returns the latest protected-call payload, or its placeholder.
func (r *Router) ProtectedData() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.protectedData
}

// Snapshot returns the latest loaded shop data.
func (r *Router) Snapshot() shop.Snapshot {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.snapshot
}

// Surface resolves the state to what should actually be rendered, re-checking
// session validity on every call so an expired token is caught before the
// next render pass.
func (r *Router) Surface() Surface {
	_, authenticated := r.deps.Store.Current()
	return resolveSurface(r.State(), authenticated)
}

// Startup consumes the signals carried by the initial URL: a verification
// link path or a checkout-return query parameter. It runs once during
// initialization and returns the URL the caller should rewrite to, so a
// reload cannot re-trigger either effect.
func (r *Router) Startup(ctx context.Context, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if u.Path == VerifyEmailPath {
		r.verifyFromLink(ctx, u.Query().Get("token"))
		return "/"
	}

	query := u.Query()
	if outcome := query.Get(shop.CheckoutParam); outcome != "" {
		r.setState(State{View: ViewShop})
		if status := shop.CheckoutReturnStatus(outcome); status != "" {
			r.setStatus(status)
		}
		query.Del(shop.CheckoutParam)
		u.RawQuery = query.Encode()
		if u.Path == "" {
			u.Path = "/"
		}
		return u.String()
	}

	return rawURL
}

func (r *Router) verifyFromLink(ctx context.Context, verificationToken string) {
	r.setState(State{View: ViewAuth, Mode: ModeLogin})

	if verificationToken == "" {
		r.setStatus("Verification failed: missing token in the link.")
		return
	}

	r.setStatus("Verifying your email...")
	if err := r.deps.Auth.VerifyEmail(ctx, verificationToken); err != nil {
		log.Warn().Err(err).Msg("email verification failed")
		r.setStatus("Verification failed: " + apierrors.Message(err))
		return
	}
	r.setStatus("Email verified successfully. You can log in now.")
}

// Watch consumes session events until ctx is done.
func (r *Router) Watch(ctx context.Context) {
	events := r.deps.Store.Subscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			r.ApplySessionEvent(ev)
		}
	}
}

// ApplySessionEvent reacts to session changes the router did not cause
// itself: expiry detected by the store, and writes made in another window.
func (r *Router) ApplySessionEvent(ev session.Event) {
	switch ev.Type {
	case session.EventExpired:
		r.lock.Lock()
		r.state = State{View: ViewAuth, Mode: ModeLogin}
		r.status = sessionExpiredStatus
		r.protectedData = protectedPlaceholder
		r.snapshot.Orders = nil
		r.lock.Unlock()

	case session.EventExternalChange:
		if ev.Session.Token != "" {
			// Another window signed in; state stays, the next render picks
			// up the new session.
			return
		}
		r.lock.Lock()
		if r.state.View == ViewDashboard {
			r.state = State{View: ViewAuth, Mode: ModeLogin}
		}
		r.status = "Signed out in another window."
		r.protectedData = protectedPlaceholder
		r.snapshot.Orders = nil
		r.lock.Unlock()
	}
}

// GoHome navigates to the home view.
func (r *Router) GoHome() {
	r.setState(State{View: ViewHome})
}

// OpenAuth navigates to the auth view in the given mode.
func (r *Router) OpenAuth(mode AuthMode) {
	r.setState(State{View: ViewAuth, Mode: mode})
}

// OpenDashboard navigates to the dashboard. Without a session the surface
// resolves to the locked fallback; the state value itself is not rewritten.
func (r *Router) OpenDashboard() {
	r.setState(State{View: ViewDashboard})
}

// OpenPolicy navigates to one of the static policy views. Other views are
// ignored.
func (r *Router) OpenPolicy(v View) {
	switch v {
	case ViewTerms, ViewPrivacy, ViewRefund:
		r.setState(State{View: v})
	}
}

// OpenShop navigates to the shop and loads its data. The snapshot is only
// replaced once both the catalog and (when authenticated) the order list
// have completed.
func (r *Router) OpenShop(ctx context.Context) {
	r.setState(State{View: ViewShop})

	snapshot, err := r.deps.Shop.LoadAll(ctx)
	if err != nil {
		r.setStatus("Shop load failed: " + apierrors.Message(err))
		return
	}

	r.lock.Lock()
	r.snapshot = *snapshot
	r.lock.Unlock()
}

// HandleRegister runs the signup flow. Registration never yields a session;
// on success the auth view flips to login mode so the user can sign in after
// verifying their email.
func (r *Router) HandleRegister(ctx context.Context, username, password, email string) {
	r.setStatus("Creating account and sending verification email...")

	if err := r.deps.Auth.Register(ctx, username, password, email); err != nil {
		r.setStatus("Register failed: " + apierrors.Message(err))
		return
	}

	r.setState(State{View: ViewAuth, Mode: ModeLogin})
	r.setStatus("Account created. Check your email to verify your account, then log in.")
}

// HandleLogin runs the login flow and persists the session on success.
func (r *Router) HandleLogin(ctx context.Context, username, password string) {
	r.setStatus("Signing in...")

	resp, err := r.deps.Auth.Login(ctx, username, password)
	if err != nil {
		if authapi.IsEmailNotVerified(err) {
			r.setStatus("Login failed: verify your email first, then try again.")
			return
		}
		r.setStatus("Login failed: " + apierrors.Message(err))
		return
	}

	if err := r.deps.Store.Save(resp.Token, username); err != nil {
		log.Error().Err(err).Msg("failed persisting session")
		r.setStatus("Login failed: could not persist the session.")
		return
	}

	r.setState(State{View: ViewDashboard})
	r.setStatus("Signed in as " + username + ".")
}

// Logout clears the session and returns home.
func (r *Router) Logout() {
	if err := r.deps.Store.Clear(); err != nil {
		log.Error().Err(err).Msg("failed clearing session")
	}
	r.resetToSignedOut(State{View: ViewHome}, "Signed out.")
}

// HandleProtected calls a protected endpoint and surfaces the result. A 401
// is the single error that mutates session state: the server has downgraded
// the token, so the session is cleared and the view falls back to home.
func (r *Router) HandleProtected(ctx context.Context, path string) {
	if _, ok := r.deps.Store.Current(); !ok {
		r.setStatus("Please log in first.")
		return
	}

	r.setStatus("Calling " + path + "...")

	data, err := r.deps.Protected.Call(ctx, path)
	if err != nil {
		if apierrors.IsUnauthorized(err) {
			if clearErr := r.deps.Store.Clear(); clearErr != nil {
				log.Error().Err(clearErr).Msg("failed clearing session")
			}
			r.resetToSignedOut(State{View: ViewHome}, sessionInvalidStatus)
			return
		}
		r.setStatus("Protected request failed: " + apierrors.Message(err))
		return
	}

	r.lock.Lock()
	r.protectedData = data
	r.status = "Protected request to " + path + " succeeded."
	r.lock.Unlock()
}

// HandleBuy originates a checkout session and returns the hosted payment URL
// the caller must navigate to. An empty return means the purchase did not
// start; the status line says why.
func (r *Router) HandleBuy(ctx context.Context, productID string) string {
	if _, ok := r.deps.Store.Current(); !ok {
		r.setStatus("Please log in before purchasing.")
		r.setState(State{View: ViewAuth, Mode: ModeLogin})
		return ""
	}

	r.setStatus("Creating checkout session...")

	redirect, err := r.deps.Shop.Purchase(ctx, productID)
	if err != nil {
		r.setStatus("Checkout failed: " + apierrors.Message(err))
		return ""
	}
	return redirect
}

// resetToSignedOut drops every trace of the previous session from the view:
// protected data back to its placeholder, orders emptied, state and status
// replaced.
func (r *Router) resetToSignedOut(state State, status string) {
	r.lock.Lock()
	r.state = state
	r.status = status
	r.protectedData = protectedPlaceholder
	r.snapshot.Orders = nil
	r.lock.Unlock()
}

func (r *Router) setState(state State) {
	r.lock.Lock()
	r.state = state
	r.lock.Unlock()
}

func (r *Router) setStatus(status string) {
	r.lock.Lock()
	r.status = status
	r.lock.Unlock()
}
