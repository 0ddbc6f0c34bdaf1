package core

import "context"

type reporterKey struct{}

// Reporter identifies the client that submitted build properties.
type Reporter struct {
	IP        string
	UserAgent string
}

// ContextWithReporter attaches the submitting client to ctx.
func ContextWithReporter(ctx context.Context, r Reporter) context.Context {
	return context.WithValue(ctx, reporterKey{}, r)
}

// ReporterFromContext returns the submitting client, or the zero Reporter.
func ReporterFromContext(ctx context.Context) Reporter {
	r, _ := ctx.Value(reporterKey{}).(Reporter)
	return r
}
