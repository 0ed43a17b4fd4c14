// Package integration runs the apicheck verification suite end to end.
//
// The tests start the reference uploads-server in-process on a free port with a temporary
// SQLite database (migrated by goose on open) and run every verification case against it,
// one subtest per case invocation. The suite reads the same database file to cross-check
// stored digests, exactly as it does against a deployed service.
//
//	go test -tags=integration -v ./test/integration
//
// A deployed service can be verified from go test as well:
//
//	APICHECK_LIVE=true BASE_URL=http://localhost:5000 DB_PATH=/srv/uploads.db \
//	    go test -tags=integration -run TestLiveService -v ./test/integration
package integration
