package types

// APIVersion prefixes every API path.
const APIVersion = "1.0"

// Module names.
const (
	ModuleStatus = "status"
	ModulePool   = "pool"
	ModuleTier   = "tier"
	ModuleImage  = "image"
	ModuleMap    = "map"
)

// ParamInfo documents one module parameter.
type ParamInfo struct {
	Name     string   `json:"name"`
	Required bool     `json:"required"`
	Default  string   `json:"default,omitempty"`
	Choices  []string `json:"choices,omitempty"`
	Help     string   `json:"help"`
}

// ModuleInfo documents one module.
type ModuleInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamInfo `json:"params"`
}

// Modules is the list of module descriptions.
type Modules []ModuleInfo

// ApplyRequest is the body of a module invocation over HTTP.
type ApplyRequest struct {
	Args      map[string]any `json:"args"`
	CheckMode bool           `json:"check_mode"`
}
