package suite

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/information-sharing-networks/uploads-apicheck/internal/apiclient"
	"github.com/information-sharing-networks/uploads-apicheck/internal/payload"
)

// Case names
const (
	CasePing               = "ping"
	CaseSuccessAuth        = "success_auth"
	CaseFailAuth           = "fail_auth"
	CaseSaveJSON           = "save_json"
	CaseSaveURLEncoded     = "save_urlencoded"
	CaseFailSaveJSON       = "fail_save_json"
	CaseFailSaveURLEncoded = "fail_save_urlencoded"
	CaseExpiredToken       = "expired_token"
)

// PayloadLengths are the lengths of the payloads submitted by the save cases
var PayloadLengths = []int{1, 50}

// ExpiredTokenPayloadLength is the length of the payload submitted with the expired token
const ExpiredTokenPayloadLength = 5

// IncorrectCredentials are the pairs the authorize endpoint must reject
var IncorrectCredentials = []apiclient.Credentials{
	{Username: "testsuper", Password: "passwordsuper"},
	{Username: "supertest", Password: "passwordsuper"},
	{Username: "testsuper", Password: "superpassword"},
	{Username: "", Password: ""},
}

// Malformed save bodies per encoding; each must be rejected with 400
var (
	MalformedJSONBodies = []string{"", `{"payload": ""}`}
	MalformedFormBodies = []string{"", "payload="}
)

// DefaultCases returns the verification cases for the uploads API
func DefaultCases() []Case {
	return []Case{
		{
			Name:     CasePing,
			Priority: 0,
			Run:      runPing,
		},
		{
			Name:      CaseSuccessAuth,
			Priority:  1,
			DependsOn: []string{CasePing},
			Run:       runSuccessAuth,
		},
		{
			Name:      CaseFailAuth,
			Priority:  2,
			DependsOn: []string{CaseSuccessAuth},
			Provider:  incorrectCredentialsProvider,
			Run:       runFailAuth,
		},
		{
			Name:      CaseSaveJSON,
			Priority:  3,
			DependsOn: []string{CaseSuccessAuth},
			Provider:  payloadProvider,
			Run:       saveRunner(apiclient.EncodingJSON),
		},
		{
			Name:      CaseSaveURLEncoded,
			Priority:  3,
			DependsOn: []string{CaseSuccessAuth},
			Provider:  payloadProvider,
			Run:       saveRunner(apiclient.EncodingForm),
		},
		{
			Name:      CaseFailSaveJSON,
			Priority:  4,
			DependsOn: []string{CaseSaveJSON},
			Provider:  bodiesProvider(MalformedJSONBodies),
			Run:       failSaveRunner(apiclient.EncodingJSON),
		},
		{
			Name:      CaseFailSaveURLEncoded,
			Priority:  4,
			DependsOn: []string{CaseSaveURLEncoded},
			Provider:  bodiesProvider(MalformedFormBodies),
			Run:       failSaveRunner(apiclient.EncodingForm),
		},
		{
			Name:      CaseExpiredToken,
			Priority:  5,
			DependsOn: []string{CaseSuccessAuth},
			Run:       runExpiredToken,
		},
	}
}

func incorrectCredentialsProvider(_ *Context) []Invocation {
	invs := make([]Invocation, 0, len(IncorrectCredentials))
	for _, creds := range IncorrectCredentials {
		invs = append(invs, Invocation{
			Name: fmt.Sprintf("%q:%q", creds.Username, creds.Password),
			Args: creds,
		})
	}
	return invs
}

func payloadProvider(_ *Context) []Invocation {
	invs := make([]Invocation, 0, len(PayloadLengths))
	for _, n := range PayloadLengths {
		invs = append(invs, Invocation{
			Name: fmt.Sprintf("len=%d", n),
			Args: payload.Generate(n),
		})
	}
	return invs
}

func bodiesProvider(bodies []string) Provider {
	return func(_ *Context) []Invocation {
		invs := make([]Invocation, 0, len(bodies))
		for _, b := range bodies {
			invs = append(invs, Invocation{Name: fmt.Sprintf("body=%q", b), Args: b})
		}
		return invs
	}
}

func runPing(t *T, sc *Context, _ any) {
	t.Step("Executing 'GET %s'", apiclient.PingPath)
	resp, err := sc.Client.Ping(t.Context())
	require.NoError(t, err)

	t.Step("Verifying that status code is '%d'", http.StatusOK)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "unexpected status code, body: %s", resp.BodyText())
}

func runSuccessAuth(t *T, sc *Context, _ any) {
	t.Step("Executing 'POST %s' as '%s'", apiclient.AuthorizePath, sc.Credentials.Username)
	resp, err := sc.Client.Authorize(t.Context(), sc.Credentials)
	require.NoError(t, err)

	t.Step("Verifying that status code is '%d'", http.StatusOK)
	require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected status code, body: %s", resp.BodyText())

	t.Step("Grabbing bearer token")
	token, err := resp.Token()
	require.NoError(t, err)
	require.NotEmpty(t, token, "service returned an empty token")

	sc.SetToken(token)
	t.Step("Token expires at %s", sc.TokenExpiresAt().Format("15:04:05.000"))
}

func runFailAuth(t *T, sc *Context, args any) {
	creds := args.(apiclient.Credentials)

	t.Step("Executing 'POST %s' with login '%s' and password '%s'", apiclient.AuthorizePath, creds.Username, creds.Password)
	resp, err := sc.Client.Authorize(t.Context(), creds)
	require.NoError(t, err)

	t.Step("Verifying that status code is '%d'", http.StatusForbidden)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "unexpected status code, body: %s", resp.BodyText())

	t.Step("Verifying that no token was issued")
	token, _ := resp.StringField("token")
	assert.Empty(t, token, "rejected credentials must not yield a token")
}

func saveRunner(enc apiclient.Encoding) func(t *T, sc *Context, args any) {
	return func(t *T, sc *Context, args any) {
		p := args.(string)

		t.Step("Executing 'POST %s' with %s payload '%s'", apiclient.SaveDataPath, enc, p)
		resp, err := sc.Client.Save(t.Context(), sc.Authorization(), enc, p)
		require.NoError(t, err)

		t.Step("Verifying that status code is '%d'", http.StatusOK)
		require.Equal(t, http.StatusOK, resp.StatusCode, "unexpected status code, body: %s", resp.BodyText())

		res, err := resp.SaveResult()
		require.NoError(t, err)
		if !res.OK() {
			t.Fatalf("Service says: '%s'", res.Error)
		}
		id := *res.ID

		t.Step("Verifying that payload md5 hash was stored in the database with id '%d'", id)
		rec, err := sc.Store.FetchRecord(t.Context(), id)
		require.NoError(t, err)
		require.False(t, rec.IsEmpty(), "no record stored with id %d", id)

		assert.True(t, strings.EqualFold(sc.Credentials.Username, rec.Login),
			"stored login: expected %q, actual %q", sc.Credentials.Username, rec.Login)
		assert.True(t, payload.Matches(rec.PayloadDigest, p),
			"stored digest: expected %q, actual %q", payload.Digest(p), rec.PayloadDigest)
	}
}

func failSaveRunner(enc apiclient.Encoding) func(t *T, sc *Context, args any) {
	return func(t *T, sc *Context, args any) {
		body := args.(string)

		before, err := sc.Store.CountRows(t.Context())
		require.NoError(t, err)
		t.Step("Getting database rows count: %d", before)

		t.Step("Executing 'POST %s' with %s body '%s'", apiclient.SaveDataPath, enc, body)
		resp, err := sc.Client.SaveRaw(t.Context(), sc.Authorization(), enc, body)
		require.NoError(t, err)

		t.Step("Verifying that status code is '%d'", http.StatusBadRequest)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unexpected status code, body: %s", resp.BodyText())

		t.Step("Verifying that no record was stored")
		after, err := sc.Store.CountRows(t.Context())
		require.NoError(t, err)
		assert.Equal(t, before, after, "row count changed after a rejected request")
	}
}

func runExpiredToken(t *T, sc *Context, _ any) {
	require.True(t, sc.HasToken(), "no token was issued in this run")

	before, err := sc.Store.CountRows(t.Context())
	require.NoError(t, err)
	t.Step("Getting database rows count: %d", before)

	wait := sc.UntilTokenExpiry()
	t.Step("Waiting %s for the token to expire", wait)
	require.NoError(t, sc.Clock.Sleep(t.Context(), wait))

	p := payload.Generate(ExpiredTokenPayloadLength)
	t.Step("Executing 'POST %s' with %s payload '%s'", apiclient.SaveDataPath, apiclient.EncodingForm, p)
	resp, err := sc.Client.Save(t.Context(), sc.Authorization(), apiclient.EncodingForm, p)
	require.NoError(t, err)

	t.Step("Verifying that status code is '%d'", http.StatusForbidden)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "unexpected status code, body: %s", resp.BodyText())

	t.Step("Verifying that no record was stored")
	after, err := sc.Store.CountRows(t.Context())
	require.NoError(t, err)
	assert.Equal(t, before, after, "row count changed after a request with an expired token")
}
