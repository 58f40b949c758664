package errors

type Code string

const (
	CodeUnknown              Code = "UNKNOWN"
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"
	CodeNotFound             Code = "NOT_FOUND"
	CodeUnauthenticated      Code = "UNAUTHENTICATED"
	CodeNoActiveConversation Code = "NO_ACTIVE_CONVERSATION"
	CodeGenerationBackend    Code = "GENERATION_BACKEND"
	CodeMalformedOutput      Code = "MALFORMED_OUTPUT"
	CodeUnexpectedShape      Code = "UNEXPECTED_SHAPE"
	CodePersistence          Code = "PERSISTENCE"
	CodeInternal             Code = "INTERNAL"
)
