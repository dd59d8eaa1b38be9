package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteUserSelfGuard(t *testing.T) {
	svc := NewService(nil)
	assert.ErrorIs(t, svc.DeleteUser("u1", "u1"), ErrSelfDelete)
}
