// Package email delivers transactional messages such as password reset links.
//
// New picks the Postmark sender when POSTMARK_SERVER_TOKEN and
// POSTMARK_ACCOUNT_TOKEN are set and falls back to DevSender, which writes
// every message to EMAIL_DEV_DIR for local inspection. Message bodies live in
// the templates subpackage and are rendered with templates.Render.
package email
