package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_Format(t *testing.T) {
	hash, err := HashPassword("pw1")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	hash1, _ := HashPassword("samepassword")
	hash2, _ := HashPassword("samepassword")

	assert.NotEqual(t, hash1, hash2, "each hash must use a fresh salt")
}

func TestVerifyPassword_CorrectPassword(t *testing.T) {
	hash, _ := HashPassword("pw1")

	valid, err := VerifyPassword("pw1", hash)
	assert.NoError(t, err)
	assert.True(t, valid)
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, _ := HashPassword("pw1")

	valid, err := VerifyPassword("wrong", hash)
	assert.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=1,p=4$onlyfiveparts",
	}

	for _, encoded := range cases {
		_, err := VerifyPassword("pw1", encoded)
		assert.Error(t, err)
	}
}

func TestVerifyPassword_EmptyPassword(t *testing.T) {
	hash, _ := HashPassword("")

	valid, err := VerifyPassword("", hash)
	assert.NoError(t, err)
	assert.True(t, valid)

	valid, _ = VerifyPassword("nonempty", hash)
	assert.False(t, valid)
}
