// @title           joe-bookmarks API
// @version         1.0
// @description     Personal bookmarks with short-code redirects. Authenticate with the access token from /auth/login.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and the access token (or the refresh token for /auth/refresh).
package api
