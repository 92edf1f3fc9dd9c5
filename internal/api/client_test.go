package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vantled/balikbayani-sub001/internal/form"
	"github.com/Vantled/balikbayani-sub001/internal/mockapi"
)

const testSecret = "test-secret"

func newBackend(t *testing.T) (*mockapi.Server, *Client) {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	srv := mockapi.New(log, testSecret)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	token, err := mockapi.IssueToken(testSecret, "u1", time.Hour)
	require.NoError(t, err)

	return srv, New(ts.URL, token, 5*time.Second)
}

func TestGetApplication(t *testing.T) {
	srv, client := newBackend(t)
	srv.SeedApplication(&mockapi.Application{
		ID:     "app1",
		Type:   "direct_hire",
		Fields: map[string]string{"email": "a@x.com", "position": "Welder"},
	})

	fields, err := client.GetApplication(context.Background(), "app1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", fields["email"])
	assert.Equal(t, "Welder", fields["position"])
}

func TestGetCorrectionsSparseReasons(t *testing.T) {
	srv, client := newBackend(t)
	srv.SeedApplication(&mockapi.Application{
		ID:   "app1",
		Type: "direct_hire",
		Corrections: []mockapi.Correction{
			{FieldKey: "email", Message: "Email does not match passport records"},
			{FieldKey: "document_passport"}, // reason intentionally absent
		},
	})

	corrections, err := client.GetCorrections(context.Background(), "app1")
	require.NoError(t, err)
	require.Len(t, corrections, 2)
	assert.Equal(t, "email", corrections[0].FieldKey)
	assert.Empty(t, corrections[1].Message)
}

func TestListDocumentsParsesStringMeta(t *testing.T) {
	srv, client := newBackend(t)
	srv.SeedApplication(&mockapi.Application{ID: "app1", Type: "direct_hire"})
	srv.SeedDocument(&mockapi.StoredDocument{
		ApplicationID: "app1",
		DocumentType:  "document_passport",
		FileName:      "passport.pdf",
		MimeType:      "application/pdf",
		Meta:          map[string]string{"passport_number": "P123"},
		Content:       []byte("pdfbytes"),
	})

	docs, err := client.ListDocuments(context.Background(), "app1", "direct_hire")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "passport.pdf", docs[0].FileName)
	assert.Equal(t, "P123", docs[0].Meta["passport_number"])
}

func TestParseMetaFallback(t *testing.T) {
	assert.Equal(t, map[string]string{}, parseMeta(nil))
	assert.Equal(t, map[string]string{}, parseMeta(json.RawMessage(`"{broken"`)))
	assert.Equal(t, map[string]string{}, parseMeta(json.RawMessage(`42`)))
	assert.Equal(t, map[string]string{"a": "b"}, parseMeta(json.RawMessage(`{"a":"b"}`)))
	assert.Equal(t, map[string]string{"a": "b"}, parseMeta(json.RawMessage(`"{\"a\":\"b\"}"`)))
}

func TestFetchDocument(t *testing.T) {
	srv, client := newBackend(t)
	id := srv.SeedDocument(&mockapi.StoredDocument{
		ApplicationID: "app1",
		DocumentType:  "document_passport",
		FileName:      "passport.pdf",
		MimeType:      "application/pdf",
		Content:       []byte("pdfbytes"),
	})

	content, contentType, err := client.FetchDocument(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdfbytes"), content)
	assert.Equal(t, "application/pdf", contentType)
}

func TestSubmitApplication(t *testing.T) {
	_, client := newBackend(t)

	controlNumber, err := client.SubmitApplication(context.Background(), "direct_hire",
		map[string]string{"email": "a@x.com", "position": "Welder"},
		map[string]*form.Attachment{
			"document_passport": {Name: "p.pdf", ContentType: "application/pdf", Content: []byte("x")},
		},
	)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(controlNumber, "BB-DH-"), "got %q", controlNumber)
}

func TestSubmitDuplicateMapsToConflict(t *testing.T) {
	_, client := newBackend(t)
	fields := map[string]string{"email": "a@x.com"}

	_, err := client.SubmitApplication(context.Background(), "direct_hire", fields, nil)
	require.NoError(t, err)

	_, err = client.SubmitApplication(context.Background(), "direct_hire", fields, nil)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CategoryDuplicate, apiErr.Category)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestExpiredTokenMapsToSessionExpired(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	srv := mockapi.New(log, testSecret)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	token, err := mockapi.IssueToken(testSecret, "u1", -time.Minute)
	require.NoError(t, err)
	client := New(ts.URL, token, 5*time.Second)

	_, err = client.GetApplication(context.Background(), "app1")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CategorySessionExpired, apiErr.Category)
}

func TestResolveCorrectionsScoping(t *testing.T) {
	srv, client := newBackend(t)
	srv.SeedApplication(&mockapi.Application{
		ID:          "app1",
		Type:        "direct_hire",
		Fields:      map[string]string{"email": "a@x.com", "position": "Welder"},
		Corrections: []mockapi.Correction{{FieldKey: "email"}},
	})

	err := client.ResolveCorrections(context.Background(), "app1", map[string]string{"email": "b@x.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", srv.Application("app1").Fields["email"])
	assert.Equal(t, "Welder", srv.Application("app1").Fields["position"], "untouched fields stay untouched")

	// A key outside the flagged set must be rejected.
	srv.SeedApplication(&mockapi.Application{
		ID:          "app2",
		Type:        "direct_hire",
		Corrections: []mockapi.Correction{{FieldKey: "email"}},
	})
	err = client.ResolveCorrections(context.Background(), "app2", map[string]string{"position": "Mason"}, nil)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CategoryValidation, apiErr.Category)
}

func TestResolveCorrectionsMultipartWithFile(t *testing.T) {
	srv, client := newBackend(t)
	srv.SeedApplication(&mockapi.Application{
		ID:          "app1",
		Type:        "direct_hire",
		Fields:      map[string]string{},
		Corrections: []mockapi.Correction{{FieldKey: "email"}, {FieldKey: "document_passport"}},
	})

	err := client.ResolveCorrections(context.Background(), "app1",
		map[string]string{"email": "b@x.com"},
		map[string]*form.Attachment{
			"document_passport": {Name: "renewed.pdf", ContentType: "application/pdf", Content: []byte("new")},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"document_passport", "email"}, srv.LastResolveKeys())
	assert.Empty(t, srv.Application("app1").Corrections, "both flags resolved")
}

func TestStatusCategoryMapping(t *testing.T) {
	cases := []struct {
		status int
		want   Category
	}{
		{http.StatusBadRequest, CategoryValidation},
		{http.StatusUnauthorized, CategorySessionExpired},
		{http.StatusConflict, CategoryDuplicate},
		{http.StatusRequestEntityTooLarge, CategoryPayloadTooLarge},
		{http.StatusInternalServerError, CategoryServer},
		{http.StatusBadGateway, CategoryServer},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tc.status)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "nope"})
		}))
		client := New(ts.URL, "", 5*time.Second)

		_, err := client.GetApplication(context.Background(), "x")
		var apiErr *Error
		require.True(t, errors.As(err, &apiErr), "status %d", tc.status)
		assert.Equal(t, tc.want, apiErr.Category, "status %d", tc.status)
		assert.Equal(t, "nope", apiErr.Message)
		ts.Close()
	}
}

func TestSuccessFalseBodyIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "backend said no"})
	}))
	t.Cleanup(ts.Close)
	client := New(ts.URL, "", 5*time.Second)

	_, err := client.GetApplication(context.Background(), "x")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CategoryServer, apiErr.Category)
	assert.Equal(t, "backend said no", apiErr.Message)
}

func TestSessionValid(t *testing.T) {
	valid, err := mockapi.IssueToken(testSecret, "u1", time.Hour)
	require.NoError(t, err)
	expired, err := mockapi.IssueToken(testSecret, "u1", -time.Minute)
	require.NoError(t, err)

	now := time.Now()
	assert.True(t, New("http://x", valid, time.Second).SessionValid(now))
	assert.False(t, New("http://x", expired, time.Second).SessionValid(now))
	assert.False(t, New("http://x", "", time.Second).SessionValid(now))
	assert.False(t, New("http://x", "not-a-jwt", time.Second).SessionValid(now))
}
