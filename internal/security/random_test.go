package security

import "testing"

func TestGenerateConfirmationToken(t *testing.T) {
	token, err := GenerateConfirmationToken()
	if err != nil {
		t.Fatalf("GenerateConfirmationToken: %v", err)
	}
	if len(token) != ConfirmationTokenLength {
		t.Errorf("token length = %d, want %d", len(token), ConfirmationTokenLength)
	}

	other, err := GenerateConfirmationToken()
	if err != nil {
		t.Fatalf("GenerateConfirmationToken: %v", err)
	}
	if token == other {
		t.Error("two generated tokens should not collide")
	}
}
