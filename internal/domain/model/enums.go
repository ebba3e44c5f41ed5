package model

// EnhancementKind selects which transformation the completion endpoint performs.
type EnhancementKind string

const (
	EnhancementGrammar EnhancementKind = "grammar"
	EnhancementSummary EnhancementKind = "summary"
	EnhancementCustom  EnhancementKind = "custom"
)

// Valid reports whether k is one of the known enhancement kinds.
func (k EnhancementKind) Valid() bool {
	switch k {
	case EnhancementGrammar, EnhancementSummary, EnhancementCustom:
		return true
	default:
		return false
	}
}

// ErrorKind classifies a failed enhancement or credential operation.
type ErrorKind string

const (
	ErrorInvalidFormat     ErrorKind = "invalid_format"
	ErrorInvalidRequest    ErrorKind = "invalid_request"
	ErrorMissingCredential ErrorKind = "missing_credential"
	ErrorAuth              ErrorKind = "auth_error"
	ErrorRateLimited       ErrorKind = "rate_limited"
	ErrorServer            ErrorKind = "server_error"
	ErrorRequest           ErrorKind = "request_error"
	ErrorMalformedResponse ErrorKind = "malformed_response"
	ErrorNetwork           ErrorKind = "network_error"
	ErrorStorage           ErrorKind = "storage_error"
	ErrorUnknown           ErrorKind = "unknown"
)

// Styles offered by the panel for custom enhancements.
var Styles = []string{"formal", "casual", "academic", "professional", "creative"}

// Tones offered by the panel for custom enhancements.
var Tones = []string{"friendly", "neutral", "confident", "persuasive", "empathetic"}
