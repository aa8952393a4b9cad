package handler

const (
	jsonKeyData    = "data"
	jsonKeyMessage = "message"
	jsonKeyErrors  = "errors"
	jsonKeyEmail   = "email"

	contentTypeMultipart = "multipart/form-data"
	paramID              = "id"

	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"

	auditResourceUser = "user"
	queryResource     = "resource"
	queryEntity       = "entity"
	queryAction       = "action"
	queryStatus       = "status"
	querySince        = "since"
	queryLimit        = "limit"
	queryOffset       = "offset"
)

const (
	msgContentTypeJSONRequired = "content type must be application/json"
	msgUnsupportedContentType  = "content type must be application/json or multipart/form-data"
	msgInvalidRequestBody      = "invalid request body"
	msgValidationFailed        = "validation failed"
	msgInvalidCredentials      = "invalid email or password"
	msgEmailAlreadyExists      = "an account with this email already exists"
	msgPasswordProcessFail     = "failed to process password"
	msgCreateAccountFail       = "failed to create account"
	msgGenerateTokenFail       = "failed to generate token"
	msgSignupDisabled          = "signup is disabled"
	msgAccountCreated          = "account created"
	msgLoggedIn                = "logged in"
	msgImageNotAccepted        = "this resource does not accept an image"
	msgImageTooLarge           = "image exceeds the maximum upload size"
	msgImageUploadFail         = "failed to store image"
	msgInvalidListFmt          = "%s must be a list or comma separated text"
	msgInvalidObjectFmt        = "%s must be valid JSON"
	msgCreatedFmt              = "%s created"
	msgUpdatedFmt              = "%s updated"
	msgDeletedFmt              = "%s deleted"

	msgInvalidQueryFmt = "invalid %s parameter"
	msgAuditQueryFail  = "failed to read activity log"

	errReadImageFmt = "failed to read image: %w"
)
