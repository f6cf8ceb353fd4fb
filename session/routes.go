package session

// Backend endpoints consumed by the session layer. The provider callback
// endpoints live on provider.Provider.
const (
	routeMe        = "/api/auth/me"
	routeLogin     = "/api/auth/login"
	routeSignup    = "/api/auth/signup"
	routeRefresh   = "/api/auth/refresh"
	routeLogout    = "/api/auth/logout"
	routeLogoutAll = "/api/auth/logout-all-devices"
)

// loginPagePath is where logout navigates to, server reachable or not.
const loginPagePath = "/auth/login"
