package domain

import "testing"

func TestCreateUserRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr bool
	}{
		{"valid", CreateUserRequest{Email: "jane@example.com", Password: "secret1"}, false},
		{"valid admin", CreateUserRequest{Email: "boss@example.com", Password: "secret1", Role: "admin"}, false},
		{"missing email", CreateUserRequest{Password: "secret1"}, true},
		{"bad email", CreateUserRequest{Email: "not-an-email", Password: "secret1"}, true},
		{"short password", CreateUserRequest{Email: "jane@example.com", Password: "12345"}, true},
		{"unknown role", CreateUserRequest{Email: "jane@example.com", Password: "secret1", Role: "superuser"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateUserRequestNormalize(t *testing.T) {
	req := CreateUserRequest{Email: "  Jane@Example.COM ", Name: " Jane "}
	req.Normalize()

	if req.Email != "jane@example.com" {
		t.Errorf("email = %q, want lowercased trimmed", req.Email)
	}
	if req.Name != "Jane" {
		t.Errorf("name = %q, want trimmed", req.Name)
	}
	if req.Role != RoleCustomer {
		t.Errorf("role = %q, want default %q", req.Role, RoleCustomer)
	}
}

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	b, err := NewResetToken()
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}

	if len(a) != 64 {
		t.Errorf("token length = %d, want 64 hex chars (32 bytes)", len(a))
	}
	if a == b {
		t.Error("two generated tokens are identical")
	}
}

func TestUserToUserInfoOmitsHash(t *testing.T) {
	u := User{ID: "1", Email: "jane@example.com", PasswordHash: "hash", Role: RoleCustomer}
	info := u.ToUserInfo()

	if info.Email != u.Email || info.ID != u.ID {
		t.Errorf("ToUserInfo lost fields: %+v", info)
	}
}
