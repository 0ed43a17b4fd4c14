// Package inspector reads and wipes the uploads table of the service under test, independently of the API.
//
// It is used to verify side effects out-of-band: that an accepted payload was stored as a
// digest against the right login, and that rejected requests did not write anything.
//
// Every operation opens its own connection and closes it before returning, on all paths.
// The suite is strictly sequential so there is never more than one connection open.
package inspector
