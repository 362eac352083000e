package auth

import "context"

type subjectKey struct{}

// WithSubject stores the token subject on ctx. For guests this is
// "guest|<uuid>", for the admin it is the admin username.
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFromContext returns the subject set by JWTMiddleware, or "" on
// unauthenticated requests. Attempts are recorded against it.
func SubjectFromContext(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey{}).(string)
	return sub
}
