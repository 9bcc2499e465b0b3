package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserID represents a backend user identifier.
// The backend may send it as a JSON string or as a JSON number; both decode to the same textual form.
type UserID string

// UnmarshalJSON implements json.Unmarshaler
func (id *UserID) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*id = ""
		return nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		*id = UserID(text)
		return nil
	}
	var number json.Number
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&number); err != nil {
		return fmt.Errorf("user id %s is neither a string nor a number", raw)
	}
	*id = UserID(number.String())
	return nil
}

// Login represents the answer of the backend's 'POST /auth/login' endpoint
type Login struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID    UserID   `json:"id"`
		Email string   `json:"email"`
		Roles []string `json:"roles"`
	} `json:"user"`
}

// Complete reports whether the login answer carries everything a session needs
func (login *Login) Complete() bool {
	return login.AccessToken != "" && login.User.ID != ""
}

// DecodeLogin decodes a login answer, which may be wrapped inside a 'data' object.
// The user object is additionally returned as it was sent.
func DecodeLogin(raw []byte) (*Login, json.RawMessage, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, err
	}
	if len(envelope.Data) > 0 && envelope.User == nil {
		raw = envelope.Data
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, nil, err
		}
	}

	login := new(Login)
	if err := json.Unmarshal(raw, login); err != nil {
		return nil, nil, err
	}
	return login, envelope.User, nil
}
