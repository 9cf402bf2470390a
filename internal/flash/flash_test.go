package flash

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	toast := New(KindSuccess, "Ranking complete!")
	assert.NotEmpty(t, toast.ID)
	assert.Equal(t, DefaultDuration, toast.Duration)
	assert.Equal(t, int64(4000), toast.Millis())
	assert.False(t, toast.Alert)

	alert := NewAlert(KindError, "Backend unavailable")
	assert.NotEqual(t, toast.ID, alert.ID)
	assert.Equal(t, int64(6000), alert.Millis())
	assert.True(t, alert.Alert)
}

func TestSetPop(t *testing.T) {
	toasts := []Toast{
		New(KindSuccess, "Schedule generated successfully!"),
		NewAlert(KindInfo, "Cache cleared"),
	}
	toasts[0].Console = "> Done.\n"

	recorder := httptest.NewRecorder()
	Set(recorder, false, toasts...)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(cookies[0])
	recorder = httptest.NewRecorder()
	popped := Pop(recorder, request, false)
	assert.Equal(t, toasts, popped)

	cleared := recorder.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, cookieName, cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)
	assert.False(t, cleared[0].Secure)
}

func TestPopClearsWithConfiguredSecureFlag(t *testing.T) {
	recorder := httptest.NewRecorder()
	Set(recorder, true, New(KindInfo, "behind a proxy"))
	stored := recorder.Result().Cookies()
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Secure)

	// TLS ends at the proxy, so the request itself is plain http.
	request := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	require.Nil(t, request.TLS)
	request.AddCookie(stored[0])
	recorder = httptest.NewRecorder()
	require.Len(t, Pop(recorder, request, true), 1)

	cleared := recorder.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.True(t, cleared[0].Secure)
	assert.Equal(t, stored[0].Path, cleared[0].Path)
}

func TestSetKeepsCookieSmall(t *testing.T) {
	toast := New(KindSuccess, "Schedule generated successfully!")
	toast.Console = "> Starting schedule generation...\n" + strings.Repeat("> block <a> placed\n", 400)

	recorder := httptest.NewRecorder()
	Set(recorder, false, toast)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.LessOrEqual(t, len(cookies[0].Value), maxValueSize)
	assert.Less(t, len(cookies[0].String()), 4096)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(cookies[0])
	popped := Pop(httptest.NewRecorder(), request, false)
	require.Len(t, popped, 1)
	assert.Equal(t, toast.Message, popped[0].Message)
	assert.True(t, strings.HasPrefix(popped[0].Console, "...\n"))
	assert.True(t, strings.HasSuffix(toast.Console, strings.TrimPrefix(popped[0].Console, "...\n")))
}

func TestSetShortConsoleUnchanged(t *testing.T) {
	toast := New(KindSuccess, "ok")
	toast.Console = "> a <b> & c\n"

	recorder := httptest.NewRecorder()
	Set(recorder, false, toast)
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(recorder.Result().Cookies()[0])
	popped := Pop(httptest.NewRecorder(), request, false)
	require.Len(t, popped, 1)
	assert.Equal(t, toast.Console, popped[0].Console)
}

func TestShortenConsolesTerminates(t *testing.T) {
	toasts := []Toast{{Console: "12345678"}, {Console: "x"}, {}}
	for shortenConsoles(toasts) {
	}
	assert.Empty(t, toasts[0].Console)
	assert.Empty(t, toasts[1].Console)
}

func TestSetNothing(t *testing.T) {
	recorder := httptest.NewRecorder()
	Set(recorder, false)
	assert.Empty(t, recorder.Result().Cookies())
}

func TestPopMissing(t *testing.T) {
	recorder := httptest.NewRecorder()
	assert.Nil(t, Pop(recorder, httptest.NewRequest(http.MethodGet, "/", nil), false))
	assert.Empty(t, recorder.Result().Cookies())
}

func TestPopInvalid(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: cookieName, Value: "%%%"})
	recorder := httptest.NewRecorder()
	assert.Nil(t, Pop(recorder, request, false))
	assert.Len(t, recorder.Result().Cookies(), 1)
}

func TestSplit(t *testing.T) {
	toast := New(KindInfo, "a")
	alert := NewAlert(KindError, "b")
	alerts, rest := Split([]Toast{toast, alert})
	assert.Equal(t, []Toast{alert}, alerts)
	assert.Equal(t, []Toast{toast}, rest)
}
