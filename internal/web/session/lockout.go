package session

import (
	"encoding/json"
	"strings"
	"time"
)

const attemptsPrefix = "login-attempts:"

type attempts struct {
	Count int       `json:"count"`
	Until time.Time `json:"until"`
}

func attemptsKey(username string) string {
	return attemptsPrefix + strings.ToLower(strings.TrimSpace(username))
}

func readAttempts(username string) (attempts, error) {
	var a attempts

	raw, err := Store.Storage.Get(attemptsKey(username))
	if err != nil || len(raw) == 0 {
		return a, err
	}

	if err = json.Unmarshal(raw, &a); err != nil {
		return attempts{}, err
	}

	if time.Now().After(a.Until) {
		return attempts{}, nil
	}

	return a, nil
}

// Locked reports whether username has max or more failed logins within the window.
func Locked(username string, maxAttempts int) (bool, error) {
	a, err := readAttempts(username)
	if err != nil {
		return false, err
	}

	return a.Count >= maxAttempts, nil
}

// RecordFailure counts a failed login of username. The counter expires window
// after the last failure.
func RecordFailure(username string, window time.Duration) (int, error) {
	a, err := readAttempts(username)
	if err != nil {
		return 0, err
	}

	a.Count++
	a.Until = time.Now().Add(window)

	out, err := json.Marshal(a)
	if err != nil {
		return 0, err
	}

	return a.Count, Store.Storage.Set(attemptsKey(username), out, window)
}

// ClearFailures resets the failed login counter of username.
func ClearFailures(username string) error {
	return Store.Storage.Delete(attemptsKey(username))
}
