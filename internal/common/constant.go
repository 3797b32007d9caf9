package common

// AuthorizationHeader carries the access token on gated HTTP requests.
const AuthorizationHeader = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// AdminPasswordMinLength is the minimum accepted admin password length.
const AdminPasswordMinLength = 8
