package session

// Route is a surface the user can be sent to.
type Route string

const (
	RouteLogin   Route = "login"
	RouteLanding Route = "landing"
)

// IntentKind classifies side effects requested by a transition.
type IntentKind int

const (
	IntentNavigate IntentKind = iota + 1
)

// Intent is a side effect to run once the new state is committed.
type Intent struct {
	Kind  IntentKind
	Route Route
}

// Navigate returns an intent that moves the user to r.
func Navigate(r Route) Intent { return Intent{Kind: IntentNavigate, Route: r} }

// Navigator executes navigation intents.
type Navigator interface {
	Navigate(r Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }
