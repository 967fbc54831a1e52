package mailer

import "fmt"

// ResetCodeEmail renders the password-reset message carrying the
// one-time code.
func ResetCodeEmail(code string) (subject, text string) {
	subject = "Subtle Marketing Password Reset"
	text = fmt.Sprintf("Your reset code is: %s", code)
	return subject, text
}

// WelcomeEmail renders the post-signup greeting delivered asynchronously
// through the email worker.
func WelcomeEmail(firstName string) (subject, text string) {
	subject = "Welcome to Subtle Marketing"
	text = fmt.Sprintf("Hi %s,\n\nYour account is ready. You can log in with your email address any time.\n\nThe Subtle Marketing team", firstName)
	return subject, text
}
