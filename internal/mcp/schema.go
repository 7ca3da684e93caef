package mcp

// ExecuteInput defines the input for the world_execute tool.
type ExecuteInput struct {
	Program string `json:"program" jsonschema:"description=Go source of the program to run in the sandbox"`
	Imports string `json:"imports,omitempty" jsonschema:"description=Import preamble prepended to the program; when set the program's first function is called automatically"`
}

// ExecuteOutput defines the output for the world_execute tool.
type ExecuteOutput struct {
	Content   string `json:"content" jsonschema:"description=Captured program output"`
	Exception string `json:"tool_call_exception,omitempty" jsonschema:"description=Captured error; empty means the program succeeded"`
	OK        bool   `json:"ok" jsonschema:"description=Whether the program ran without errors"`
}

// ReadTableInput defines the input for the world_read_table tool.
type ReadTableInput struct {
	Namespace string `json:"namespace" jsonschema:"description=Table to read (e.g. 'employees', 'user_calendar')"`
}

// ReadTableOutput defines the output for the world_read_table tool.
type ReadTableOutput struct {
	Rows  []map[string]any `json:"rows" jsonschema:"description=Visible rows with dates as ISO 8601 strings"`
	Count int              `json:"count" jsonschema:"description=Number of visible rows"`
}

// WriteTableInput defines the input for the world_write_table tool.
type WriteTableInput struct {
	Namespace string           `json:"namespace" jsonschema:"description=Table to write to"`
	Rows      []map[string]any `json:"rows" jsonschema:"description=Rows to insert, dates as ISO 8601 strings"`
}

// WriteTableOutput defines the output for the world_write_table tool.
type WriteTableOutput struct {
	Inserted int `json:"inserted" jsonschema:"description=Number of rows inserted"`
}

// SnapshotInput defines the input for the world_snapshot tool.
type SnapshotInput struct {
	Path string `json:"path,omitempty" jsonschema:"description=File to save the snapshot to; when empty the snapshot is returned inline"`
}

// SnapshotOutput defines the output for the world_snapshot tool.
type SnapshotOutput struct {
	Path     string `json:"path,omitempty" jsonschema:"description=File the snapshot was written to"`
	Snapshot string `json:"snapshot,omitempty" jsonschema:"description=Snapshot JSON when no path was given"`
}

// SeedInput defines the input for the world_seed tool.
type SeedInput struct {
	Seed     int64    `json:"seed,omitempty" jsonschema:"description=Random seed for reproducible worlds"`
	Names    []string `json:"names,omitempty" jsonschema:"description=Employee name pool; padded with defaults when too small"`
	UserName string   `json:"user_name" jsonschema:"description=Name of the employee acting as the current user"`
	UserTeam string   `json:"user_team,omitempty" jsonschema:"description=Team of the user (default 'engineering')"`
	UserRole string   `json:"user_role,omitempty" jsonschema:"description=Role of the user (default 'Team Member')"`
}

// SeedOutput defines the output for the world_seed tool.
type SeedOutput struct {
	Employees int `json:"employees" jsonschema:"description=Number of employees written to the directory"`
}
