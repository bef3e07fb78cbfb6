package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailExists        ErrCode = "EMAIL_EXISTS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Session lifecycle ─────────────────────────────────────────────
	ErrNotEnoughQuestions   ErrCode = "NOT_ENOUGH_QUESTIONS"
	ErrSessionClosed        ErrCode = "SESSION_CLOSED"
	ErrSessionNotCompleted  ErrCode = "SESSION_NOT_COMPLETED"
	ErrAlreadyCompleted     ErrCode = "ALREADY_COMPLETED"
	ErrAnswerAlreadyExists  ErrCode = "ANSWER_ALREADY_SUBMITTED"
	ErrQuestionNotInSession ErrCode = "QUESTION_NOT_IN_SESSION"
	ErrInvalidAnswer        ErrCode = "INVALID_ANSWER"

	// ─── Question generator ────────────────────────────────────────────
	ErrGeneratorUnavailable ErrCode = "GENERATOR_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailExists:
		return "An account with this email already exists."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenRevoked:
		return "The authentication token has been revoked. Please log in again."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have access to this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Session lifecycle ─────────────────────────────────────────────
	case ErrNotEnoughQuestions:
		return "This quiz type does not have enough questions for the requested session."
	case ErrSessionClosed:
		return "This session has already been completed."
	case ErrSessionNotCompleted:
		return "This session has not been finished yet."
	case ErrAlreadyCompleted:
		return "This session was already finished."
	case ErrAnswerAlreadyExists:
		return "An answer for this question was already submitted."
	case ErrQuestionNotInSession:
		return "This question is not part of the session."
	case ErrInvalidAnswer:
		return "The chosen option is out of range."

	// ─── Question generator ────────────────────────────────────────────
	case ErrGeneratorUnavailable:
		return "Question generation is temporarily unavailable. Please try again."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
