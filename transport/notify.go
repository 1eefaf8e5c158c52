// Convenience wrappers around LISTEN/NOTIFY/UNLISTEN, layered on top of
// the out-of-band Notification channel already fed by pump() (§4.F
// "notify").
package transport

import (
	"context"
	"fmt"
)

// Listen issues LISTEN for channel. Incoming notifications arrive on
// Notifications() asynchronously, independent of any query in flight.
func (c *Conn) Listen(ctx context.Context, channel string) error {
	_, _, err := c.SimpleQuery(ctx, fmt.Sprintf("LISTEN %s", QuoteIdent(channel)))
	return err
}

// Unlisten issues UNLISTEN for channel.
func (c *Conn) Unlisten(ctx context.Context, channel string) error {
	_, _, err := c.SimpleQuery(ctx, fmt.Sprintf("UNLISTEN %s", QuoteIdent(channel)))
	return err
}

// UnlistenAll issues UNLISTEN *.
func (c *Conn) UnlistenAll(ctx context.Context) error {
	_, _, err := c.SimpleQuery(ctx, "UNLISTEN *")
	return err
}

// Notify issues NOTIFY channel, payload via SELECT pg_notify, with channel
// and payload spliced into the SQL text as QuoteLiteral-escaped literals.
func (c *Conn) Notify(ctx context.Context, channel, payload string) error {
	_, _, err := c.SimpleQuery(ctx, fmt.Sprintf("SELECT pg_notify(%s, %s)", QuoteLiteral(channel), QuoteLiteral(payload)))
	return err
}

// QuoteIdent double-quotes s as a SQL identifier, doubling embedded quotes.
// Exported for callers (e.g. the db package's savepoint names) that need to
// splice a caller-supplied name into statement text safely.
func QuoteIdent(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, s[i])
	}
	out = append(out, '"')
	return string(out)
}

// QuoteLiteral single-quotes s as a SQL string literal, doubling embedded
// quotes.
func QuoteLiteral(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	out = append(out, '\'')
	return string(out)
}
