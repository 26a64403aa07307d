// Package email sends transactional emails.
//
// EmailSender is the port used by billing and notifications. NewPostmarkClient
// returns the production implementation on github.com/mrz1836/postmark;
// LogSender only logs and is used when Postmark tokens are absent. Bodies are
// produced from templ components with Render.
package email
