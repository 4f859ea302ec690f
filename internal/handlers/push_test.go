package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type fakeSender struct {
	textErr     error
	failDocURLs map[string]error

	texts []string
	docs  []string
}

func (f *fakeSender) SendText(_ int64, text string) error {
	if f.textErr != nil && len(f.texts) == 0 {
		return f.textErr
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeSender) SendDocumentURL(_ int64, url string) error {
	f.docs = append(f.docs, url)
	if err, ok := f.failDocURLs[url]; ok {
		return err
	}
	return nil
}

func performPush(t *testing.T, sender *fakeSender, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := NewPushHandler(nil, sender)
	h.Register(e)
	req := httptest.NewRequest(http.MethodPost, "/post-message", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPostMessageDeliversTextAndEchoes(t *testing.T) {
	sender := &fakeSender{}
	rec := performPush(t, sender, `{"tele_id":7,"author":"Support","text":"we are on it","attachment":[]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Support. You sent: we are on it")
	assert.Equal(t, []string{"Support: we are on it"}, sender.texts)
	assert.Empty(t, sender.docs)
}

func TestPostMessageTextFailureAbortsAttachments(t *testing.T) {
	sender := &fakeSender{textErr: errors.New("chat not found")}
	rec := performPush(t, sender, `{"tele_id":7,"author":"Support","text":"hi","attachment":[["a.txt","https://files.example.org/a.txt"]]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat not found")
	assert.Empty(t, sender.docs, "attachment loop must not run after a text failure")
}

func TestPostMessageAttachmentFailuresAreNonFatal(t *testing.T) {
	sender := &fakeSender{
		failDocURLs: map[string]error{
			"https://files.example.org/b.png": errors.New("fetch failed"),
		},
	}
	body := `{"tele_id":7,"author":"Support","text":"three files","attachment":[` +
		`["a.png","https://files.example.org/a.png"],` +
		`["b.png","https://files.example.org/b.png"],` +
		`["c.png","https://files.example.org/c.png"]]}`
	rec := performPush(t, sender, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	// All three were attempted, including the one after the failure.
	assert.Equal(t, []string{
		"https://files.example.org/a.png",
		"https://files.example.org/b.png",
		"https://files.example.org/c.png",
	}, sender.docs)
	// Exactly one aggregate notice after the original text.
	assert.Len(t, sender.texts, 2)
	assert.Equal(t, "One or more files sent by Support failed to be sent", sender.texts[1])
}

func TestPostMessageRejectsMalformedBody(t *testing.T) {
	sender := &fakeSender{}
	rec := performPush(t, sender, `{"tele_id":"not-a-number"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sender.texts)
}

func TestPostMessageRejectsBadAttachmentShape(t *testing.T) {
	sender := &fakeSender{}
	rec := performPush(t, sender, `{"tele_id":7,"author":"S","text":"x","attachment":[["only-name"]]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sender.texts)
}

func TestPing(t *testing.T) {
	e := echo.New()
	NewPingHandler(nil).Register(e)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
