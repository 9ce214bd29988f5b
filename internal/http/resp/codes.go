package resp

// Machine-readable codes carried alongside HTTP statuses.
const (
	CodeBadRequest    = "bad_request"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeNotFound      = "not_found"
	CodeInternalError = "internal_error"
	CodeQueued        = "queued"
	CodeOK            = "ok"
)
