package backend

// Endpoints contains the REST paths used by the client.
type Endpoints struct {
	Login         string `json:"login"`          // e.g., "/login"
	ValidateToken string `json:"validate_token"` // e.g., "/validate-access-token"
	Health        string `json:"health"`         // e.g., "/health"

	Agents        string `json:"agents"`
	Projects      string `json:"projects"`
	Tools         string `json:"tools"`
	Toolkits      string `json:"toolkits"`
	Resources     string `json:"resources"`
	Configs       string `json:"configs"`
	Organisations string `json:"organisations"`
	Users         string `json:"users"`
}

// DefaultEndpoints returns the paths served by the backend.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:         "/login",
		ValidateToken: "/validate-access-token",
		Health:        "/health",
		Agents:        "/agents",
		Projects:      "/projects",
		Tools:         "/tools",
		Toolkits:      "/toolkits",
		Resources:     "/resources",
		Configs:       "/configs",
		Organisations: "/organisations",
		Users:         "/users",
	}
}

func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&e.Login, d.Login)
	fill(&e.ValidateToken, d.ValidateToken)
	fill(&e.Health, d.Health)
	fill(&e.Agents, d.Agents)
	fill(&e.Projects, d.Projects)
	fill(&e.Tools, d.Tools)
	fill(&e.Toolkits, d.Toolkits)
	fill(&e.Resources, d.Resources)
	fill(&e.Configs, d.Configs)
	fill(&e.Organisations, d.Organisations)
	fill(&e.Users, d.Users)
	return e
}
