package backend

import (
	"reflect"
	"strings"
	"testing"
)

func TestDecodeLogin(t *testing.T) {
	for _, body := range []string{
		`{"accessToken":"t","user":{"id":"u1","email":"a@b.c","roles":["STAFF"]}}`,
		`{"data":{"accessToken":"t","user":{"id":"u1","email":"a@b.c","roles":["STAFF"]}}}`,
	} {
		login, user, err := DecodeLogin([]byte(body))
		if err != nil {
			t.Fatalf("DecodeLogin(%s) error = %v", body, err)
		}
		if login.AccessToken != "t" || login.User.ID != "u1" || !reflect.DeepEqual(login.User.Roles, []string{"STAFF"}) {
			t.Errorf("DecodeLogin(%s) = %+v", body, login)
		}
		if !strings.Contains(string(user), `"id":"u1"`) {
			t.Errorf("user = %s, want the raw backend user", user)
		}
	}

	if _, _, err := DecodeLogin([]byte(`nope`)); err == nil {
		t.Error("DecodeLogin(nope) error = nil, want an error")
	}
}

func TestUserIDForms(t *testing.T) {
	tests := []struct {
		body    string
		want    UserID
		wantErr bool
	}{
		{`{"user":{"id":"u1"}}`, "u1", false},
		{`{"user":{"id":42}}`, "42", false},
		{`{"user":{"id":12345678901234567890}}`, "12345678901234567890", false},
		{`{"user":{"id":null}}`, "", false},
		{`{"user":{}}`, "", false},
		{`{"user":{"id":true}}`, "", true},
	}
	for _, tt := range tests {
		login, _, err := DecodeLogin([]byte(tt.body))
		if (err != nil) != tt.wantErr {
			t.Errorf("DecodeLogin(%s) error = %v, wantErr %v", tt.body, err, tt.wantErr)
			continue
		}
		if err == nil && login.User.ID != tt.want {
			t.Errorf("DecodeLogin(%s) user ID = %q, want %q", tt.body, login.User.ID, tt.want)
		}
	}
}

func TestLoginComplete(t *testing.T) {
	login := new(Login)
	if login.Complete() {
		t.Error("empty login is complete")
	}
	login.AccessToken = "t"
	if login.Complete() {
		t.Error("login without a user ID is complete")
	}
	login.User.ID = "u1"
	if !login.Complete() {
		t.Error("login with access token and user ID is not complete")
	}
}
