package session

// Access is the outcome of checking whether a protected surface may be shown.
type Access int

const (
	// AccessPending means the session is still settling; show a waiting indicator.
	AccessPending Access = iota
	AccessGranted
	// AccessDenied means the caller should redirect to the login surface.
	AccessDenied
)

func (a Access) String() string {
	switch a {
	case AccessPending:
		return "pending"
	case AccessGranted:
		return "granted"
	case AccessDenied:
		return "denied"
	}
	return "unknown"
}

// AccessFor derives the access decision from s.
func AccessFor(s State) Access {
	switch {
	case s.IsLoading:
		return AccessPending
	case s.IsAuthenticated:
		return AccessGranted
	}
	return AccessDenied
}

// Guard calls fn with the current access decision and again every time
// IsAuthenticated or IsLoading changes. The returned function stops it.
func (c *Controller) Guard(fn func(Access)) (cancel func()) {
	type key struct{ authenticated, loading bool }

	// deliveries are serialized by publish, so last needs no lock
	var last *key
	return c.subscribe(func(s State) {
		k := key{s.IsAuthenticated, s.IsLoading}
		if last != nil && *last == k {
			return
		}
		last = &k
		fn(AccessFor(s))
	}, true)
}
