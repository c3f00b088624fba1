package middleware

import (
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/api/transport"
	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/pkg/httpcontext"
)

// ScopeWrite allows changing degree programs, shared links and the view cache.
const ScopeWrite = "degree-programs:write"

// EditorClaims are the claims expected on editor tokens. Scope is a
// space separated list.
type EditorClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func (c EditorClaims) HasScope(scope string) bool {
	return slices.Contains(strings.Fields(c.Scope), scope)
}

// JWTAuth accepts HS256 tokens from issuer that carry the given scope and
// stores the token subject under httpcontext.KeySubject.
func JWTAuth(secret, issuer, scope string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" || secret == "" {
				reject(ctx, "missing bearer token")
				return
			}

			var claims EditorClaims
			token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				reject(ctx, "invalid token")
				return
			}
			if issuer != "" && !claims.VerifyIssuer(issuer, true) {
				logger.Warn("jwt issuer mismatch", zap.String("issuer", claims.Issuer))
				reject(ctx, "invalid token")
				return
			}
			if scope != "" && !claims.HasScope(scope) {
				ctx.SetStatusCode(fasthttp.StatusForbidden)
				writeEnvelope(ctx, transport.NewError(string(domain.ErrCodeForbidden), "missing scope "+scope, nil))
				return
			}

			ctx.SetUserValue(string(httpcontext.KeySubject), claims.Subject)
			next(ctx)
		}
	}
}

func reject(ctx *fasthttp.RequestCtx, message string) {
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.Response.Header.Set("WWW-Authenticate", `Bearer realm="degree-programs"`)
	writeEnvelope(ctx, transport.NewError(string(domain.ErrCodeUnauthorized), message, nil))
}

func writeEnvelope(ctx *fasthttp.RequestCtx, envelope transport.Envelope) {
	ctx.SetContentType("application/json")
	ctx.SetBodyString(envelope.String())
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
