package auth

import "testing"

func TestGenerateAndValidateToken(t *testing.T) {
	s := NewService("test-secret")

	token, err := s.GenerateToken("admin-1", "root")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.AdminID != "admin-1" || claims.Username != "root" {
		t.Fatalf("claims = %+v, want AdminID=admin-1 Username=root", claims)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s1 := NewService("secret-a")
	s2 := NewService("secret-b")

	token, err := s1.GenerateToken("admin-1", "root")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := s2.ValidateToken(token); err == nil {
		t.Fatal("expected ValidateToken to reject a token signed with a different secret")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	s := NewService("test-secret")
	if _, err := s.ValidateToken("not-a-jwt"); err == nil {
		t.Fatal("expected ValidateToken to reject a malformed token")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	s := NewService("test-secret")

	hash, err := s.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !s.CheckPassword("correct horse battery staple", hash) {
		t.Fatal("CheckPassword rejected the correct password")
	}
	if s.CheckPassword("wrong password", hash) {
		t.Fatal("CheckPassword accepted an incorrect password")
	}
}
