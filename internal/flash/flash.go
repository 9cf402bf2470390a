package flash

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

const (
	DefaultDuration = 4 * time.Second
	AlertDuration   = 6 * time.Second
)

// Toast is a message shown once and dismissed after Duration.
type Toast struct {
	ID       string        `json:"id"`
	Kind     Kind          `json:"kind"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
	// Alert toasts are shown inline at the top of the page instead of in the
	// toast container.
	Alert bool `json:"alert,omitempty"`
	// Console is action output shown next to the toast.
	Console string `json:"console,omitempty"`
}

func New(kind Kind, message string) Toast {
	return Toast{
		ID:       gonanoid.Must(),
		Kind:     kind,
		Message:  message,
		Duration: DefaultDuration,
	}
}

func NewAlert(kind Kind, message string) Toast {
	toast := New(kind, message)
	toast.Duration = AlertDuration
	toast.Alert = true
	return toast
}

// Millis is the dismissal delay in milliseconds.
func (t Toast) Millis() int64 {
	return t.Duration.Milliseconds()
}

const cookieName = "flash"

// maxValueSize keeps the encoded cookie under the 4096 byte limit browsers
// apply to a whole cookie, name and attributes included.
const maxValueSize = 3800

// Set stores toasts in a cookie for the next page load. Console output is
// shortened from the front until the cookie fits.
func Set(w http.ResponseWriter, secure bool, toasts ...Toast) {
	if len(toasts) == 0 {
		return
	}
	value, err := encode(toasts)
	if err != nil {
		return
	}
	http.SetCookie(w, cookie(value, secure))
}

// Pop returns the toasts stored by Set and clears the cookie. A cookie that
// cannot be decoded is dropped. secure must match the flag given to Set.
func Pop(w http.ResponseWriter, r *http.Request, secure bool) []Toast {
	stored, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	cleared := cookie("", secure)
	cleared.MaxAge = -1
	http.SetCookie(w, cleared)

	data, err := base64.URLEncoding.DecodeString(stored.Value)
	if err != nil {
		return nil
	}
	var toasts []Toast
	if err := json.Unmarshal(data, &toasts); err != nil {
		return nil
	}
	return toasts
}

func cookie(value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

var errTooLarge = errors.New("toasts do not fit in a cookie")

func encode(toasts []Toast) (string, error) {
	toasts = slices.Clone(toasts)
	for {
		var buf bytes.Buffer
		encoder := json.NewEncoder(&buf)
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(toasts); err != nil {
			return "", fmt.Errorf("encode toasts: %w", err)
		}
		value := base64.URLEncoding.EncodeToString(bytes.TrimSpace(buf.Bytes()))
		if len(value) <= maxValueSize {
			return value, nil
		}
		if !shortenConsoles(toasts) {
			return "", errTooLarge
		}
	}
}

// shortenConsoles keeps the second half of every console output and reports
// whether anything was left to shorten.
func shortenConsoles(toasts []Toast) bool {
	shortened := false
	for i := range toasts {
		console := toasts[i].Console
		if console == "" {
			continue
		}
		cut := len(console) / 2
		for cut < len(console) && !utf8.RuneStart(console[cut]) {
			cut++
		}
		shorter := truncated + console[cut:]
		if len(shorter) >= len(console) {
			shorter = ""
		}
		toasts[i].Console = shorter
		shortened = true
	}
	return shortened
}

// truncated prefixes console output that lost its beginning.
const truncated = "...\n"

// Split separates inline alerts from container toasts.
func Split(toasts []Toast) (alerts, rest []Toast) {
	for _, toast := range toasts {
		if toast.Alert {
			alerts = append(alerts, toast)
		} else {
			rest = append(rest, toast)
		}
	}
	return alerts, rest
}
