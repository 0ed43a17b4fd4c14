// Package suite is the ordered verification suite for the uploads API.
//
// A suite is a fixed list of Cases. Each case has a priority, an optional list of cases it
// depends on and an optional data provider producing one invocation per input tuple. Cases
// run strictly sequentially by ascending priority (declaration order breaks ties). A case
// whose dependency did not pass is skipped with a reason, never silently passed.
//
// State established by one case and consumed by later ones (the bearer token and its
// expiry) lives in a Context that is passed to every case.
//
// Assertions are made through testify's assert and require packages using the case's *T
// as the testing.T replacement, so the same cases run from the apicheck CLI (Runner.Run,
// returning a Report) and from go test (RunTesting, one subtest per invocation).
//
// The default case list:
//
//	ping                  GET /ping/ -> 200
//	success_auth          POST /authorize/ with valid credentials -> 200 + token
//	fail_auth             POST /authorize/ with each incorrect pair -> 403
//	save_json             POST /api/save_data/ JSON, lengths 1 and 50 -> 200 + stored digest
//	save_urlencoded       as save_json with a URL encoded form body
//	fail_save_json        malformed JSON bodies -> 400, row count unchanged
//	fail_save_urlencoded  malformed form bodies -> 400, row count unchanged
//	expired_token         wait for token expiry, save -> 403, row count unchanged
package suite
