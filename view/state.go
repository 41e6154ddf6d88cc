package view

// View names the active UI surface. The zero value is the home page, which
// is where the app starts.
type View int

const (
	ViewHome View = iota
	ViewAuth
	ViewDashboard
	ViewShop
	ViewTerms
	ViewPrivacy
	ViewRefund
)

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewAuth:
		return "auth"
	case ViewDashboard:
		return "dashboard"
	case ViewShop:
		return "shop"
	case ViewTerms:
		return "terms"
	case ViewPrivacy:
		return "privacy"
	case ViewRefund:
		return "refund"
	}
	return "unknown"
}

// AuthMode is the auth sub-state, meaningful only while View == ViewAuth.
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeSignup
)

func (m AuthMode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// State is the single routing value. Keeping view and auth mode in one place
// (instead of loose flags) means every transition replaces the whole value.
type State struct {
	View View
	Mode AuthMode
}

// Surface is what actually gets rendered for a State. It differs from the
// raw view in exactly one case: a dashboard request without an authenticated
// session resolves to a locked surface, so protected data can never be drawn
// from an invalid session even though the state value itself is untouched.
type Surface int

const (
	SurfaceHome Surface = iota
	SurfaceAuth
	SurfaceDashboard
	SurfaceDashboardLocked
	SurfaceShop
	SurfaceTerms
	SurfacePrivacy
	SurfaceRefund
)

func resolveSurface(state State, authenticated bool) Surface {
	switch state.View {
	case ViewAuth:
		return SurfaceAuth
	case ViewDashboard:
		if !authenticated {
			return SurfaceDashboardLocked
		}
		return SurfaceDashboard
	case ViewShop:
		return SurfaceShop
	case ViewTerms:
		return SurfaceTerms
	case ViewPrivacy:
		return SurfacePrivacy
	case ViewRefund:
		return SurfaceRefund
	}
	return SurfaceHome
}
