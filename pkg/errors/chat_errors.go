package errors

var (
	// Domain errors shared by the services and the artifact parser.
	ErrUnauthenticated      = Unauthorized("user is not authenticated")
	ErrNoActiveConversation = New(CodeNoActiveConversation, "no conversation is selected")
	ErrEmptyTitle           = InvalidArg("conversation title cannot be empty")
	ErrUnexpectedShape      = New(CodeUnexpectedShape, "generation output is not a JSON object")
	ErrVersionNotFound      = NotFound("project version not found for this conversation")
)

func ErrMalformedOutput(cause error) error {
	return Wrap(CodeMalformedOutput, "generation output is not valid JSON", cause)
}

func ErrGenerationBackend(cause error) error {
	return Wrap(CodeGenerationBackend, "generation backend call failed", cause)
}

func ErrPersistence(cause error) error {
	return Wrap(CodePersistence, "durable store operation failed", cause)
}
