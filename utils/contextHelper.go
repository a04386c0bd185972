package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/pawnshop_backend/appctx"
)

// Alias the shared context key type so existing code keeps working.
type contextKey = appctx.ContextKey

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyProfileId     = appctx.ContextKeyProfileId
	ContextKeyUsername      = appctx.ContextKeyUsername
	ContextKeyFullName      = appctx.ContextKeyFullName
	ContextKeyRole          = appctx.ContextKeyRole
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyToken)
}

func GetProfileIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyProfileId)
}

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUsername)
}

func GetFullNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyFullName)
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyRole)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetProfileIdInContext(ctx context.Context, profileId string) context.Context {
	return appctx.Set(ctx, ContextKeyProfileId, profileId)
}

func SetUsernameInContext(ctx context.Context, username string) context.Context {
	return appctx.Set(ctx, ContextKeyUsername, username)
}

func SetFullNameInContext(ctx context.Context, fullName string) context.Context {
	return appctx.Set(ctx, ContextKeyFullName, fullName)
}

func SetRoleInContext(ctx context.Context, role string) context.Context {
	return appctx.Set(ctx, ContextKeyRole, role)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
