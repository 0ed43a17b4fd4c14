// payload package builds the request bodies sent to the save endpoint and the digest
// the service is expected to persist for them.
//
// The digest is the oracle used to verify server-side storage: the service stores the MD5
// of the submitted payload (uppercase hex), never the plaintext.
package payload
