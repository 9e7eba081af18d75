package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// PasswordReset is the HTML body of a password reset message. link is
// sanitized with templ.URL, so non-http(s) schemes render as an inert URL.
func PasswordReset(link string, expiresAt time.Time) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		href := templ.EscapeString(string(templ.URL(link)))
		_, err := fmt.Fprintf(w,
			`<p>We received a request to reset your password.</p>`+
				`<p><a href="%s">Choose a new password</a></p>`+
				`<p>The link can be used once and expires at %s.</p>`+
				`<p>If you did not ask for this, ignore this message.</p>`,
			href, templ.EscapeString(expiresAt.UTC().Format("2006-01-02 15:04 MST")),
		)
		return err
	})
}

// PasswordResetText is the plain-text alternative of PasswordReset.
func PasswordResetText(link string, expiresAt time.Time) string {
	return fmt.Sprintf("We received a request to reset your password.\n\n"+
		"Choose a new password: %s\n\n"+
		"The link can be used once and expires at %s.\n"+
		"If you did not ask for this, ignore this message.\n",
		link, expiresAt.UTC().Format("2006-01-02 15:04 MST"))
}
