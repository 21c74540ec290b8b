package application

import "expvar"

// Process-wide counters, served on /api/debug/vars under "accounts".
var (
	accountStats = expvar.NewMap("accounts")

	statRegistrations = new(expvar.Int)
	statLogins        = new(expvar.Int)
	statLoginFailures = new(expvar.Int)
	statFollows       = new(expvar.Int)
	statUnfollows     = new(expvar.Int)
)

func init() {
	accountStats.Set("registrations", statRegistrations)
	accountStats.Set("logins", statLogins)
	accountStats.Set("login_failures", statLoginFailures)
	accountStats.Set("follows", statFollows)
	accountStats.Set("unfollows", statUnfollows)
}
