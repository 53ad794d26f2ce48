package usecase

// Códigos de erro de domínio
const (
	CodeBadPayload            = "BAD_PAYLOAD"
	CodeOAuthExchangeFailed   = "OAUTH_EXCHANGE_FAILED"
	CodeUpstreamAuthFailure   = "UPSTREAM_AUTH_FAILURE"
	CodeUpstreamLookupFailure = "UPSTREAM_LOOKUP_FAILURE"
	CodeNoCompanyAssociated   = "NO_COMPANY_ASSOCIATED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeEmailTaken            = "EMAIL_TAKEN"
	CodePersistenceFailure    = "PERSISTENCE_FAILURE"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// DomainCode extrai o código quando for DomainError, senão ""
func DomainCode(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}

type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
