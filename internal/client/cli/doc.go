// Package cli implements soldctl, the sold.bd back-office command line.
//
// Each invocation runs one command (login, deals, deal-toggle, ...). Every
// call goes through api.Client, so an expired access token is refreshed
// silently from the session stored in the local SQLite database.
package cli
