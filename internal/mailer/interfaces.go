package mailer

// Service delivers account emails. The auth service never depends on a
// concrete transport; tests and local development use the log-only
// implementation.
type Service interface {
	SendPasswordResetEmail(toEmail, toName, resetURL, token string) error
}
