package backend

// User is the account record, also returned when validating the access token.
type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"password,omitempty"`
	OrganisationID int64     `json:"organisation_id,omitempty"`
	CreatedAt      Timestamp `json:"created_at,omitzero"`
	UpdatedAt      Timestamp `json:"updated_at,omitzero"`
}

type Agent struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ProjectID   int64     `json:"project_id"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
	UpdatedAt   Timestamp `json:"updated_at,omitzero"`
}

type Project struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	OrganisationID int64     `json:"organisation_id"`
	Description    string    `json:"description"`
	CreatedAt      Timestamp `json:"created_at,omitzero"`
	UpdatedAt      Timestamp `json:"updated_at,omitzero"`
}

type Tool struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FolderName  string    `json:"folder_name"`
	ClassName   string    `json:"class_name"`
	FileName    string    `json:"file_name"`
	Description string    `json:"description"`
	ToolkitID   int64     `json:"toolkit_id"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
	UpdatedAt   Timestamp `json:"updated_at,omitzero"`
}

type Toolkit struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ShowToolkit    bool      `json:"show_toolkit"`
	OrganisationID int64     `json:"organisation_id"`
	ToolCodeLink   string    `json:"tool_code_link"`
	CreatedAt      Timestamp `json:"created_at,omitzero"`
	UpdatedAt      Timestamp `json:"updated_at,omitzero"`
}

// Resource is a file attached to an agent.
type Resource struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	StorageType      string    `json:"storage_type"`
	Path             string    `json:"path"`
	Size             int64     `json:"size"`
	Type             string    `json:"type"`
	Channel          string    `json:"channel"`
	AgentID          int64     `json:"agent_id"`
	AgentExecutionID int64     `json:"agent_execution_id,omitempty"`
	CreatedAt        Timestamp `json:"created_at,omitzero"`
	UpdatedAt        Timestamp `json:"updated_at,omitzero"`
}

// Config is one organisation-level key/value setting.
type Config struct {
	ID             int64     `json:"id"`
	OrganisationID int64     `json:"organisation_id"`
	Key            string    `json:"key"`
	Value          string    `json:"value"`
	CreatedAt      Timestamp `json:"created_at,omitzero"`
	UpdatedAt      Timestamp `json:"updated_at,omitzero"`
}

type Organisation struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
	UpdatedAt   Timestamp `json:"updated_at,omitzero"`
}
