package models

type ErrorResponse struct {
	Error string `json:"error"`
}

// OperationResult summarises one management call for CLI output.
type OperationResult struct {
	Target string `json:"target" yaml:"target"`
	Status int    `json:"status" yaml:"status"`
	OK     bool   `json:"ok" yaml:"ok"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}
