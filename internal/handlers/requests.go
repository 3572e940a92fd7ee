package handlers

// LoginRequest carries the admin password
type LoginRequest struct {
	Password string `json:"password"`
}

// ProgramCreateRequest represents a request to create a program
type ProgramCreateRequest struct {
	Name string `json:"name"`
}

// ProgramRenameRequest represents a request to rename a program
type ProgramRenameRequest struct {
	Name string `json:"name"`
}

// ProgramSettingsRequest is a partial update of a program's settings.
// Omitted fields keep their current value.
type ProgramSettingsRequest struct {
	DrawCount       *int    `json:"draw_count"`
	AllowDuplicate  *bool   `json:"allow_duplicate"`
	SpinSpeed       *string `json:"spin_speed"`
	RemoveAfterDraw *bool   `json:"remove_after_draw"`
	SkipAnimation   *bool   `json:"skip_animation"`
	ShowProbability *bool   `json:"show_probability"`
	KeepHistory     *bool   `json:"keep_history"`
}

// LabelsRequest replaces a program's ladder outcome labels
type LabelsRequest struct {
	Labels []string `json:"labels"`
}

// ParticipantAddRequest adds one participant by name, or many from a newline
// or comma separated list in Names
type ParticipantAddRequest struct {
	Name  string `json:"name"`
	Names string `json:"names"`
}

// ParticipantUpdateRequest changes a participant's weight
type ParticipantUpdateRequest struct {
	Weight int `json:"weight"`
}

// ExclusionRequest adds a name to the exclusion list
type ExclusionRequest struct {
	Name string `json:"name"`
}

// TraceRequest picks the ladder track to trace
type TraceRequest struct {
	Track int `json:"track"`
}

// SettingsUpdateRequest represents a request to update application settings
type SettingsUpdateRequest struct {
	BaseURL string            `json:"base_url"`
	Values  map[string]string `json:"values,omitempty"`
}
