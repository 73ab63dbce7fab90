package usecase

import (
	"net/http"
	"testing"

	"movie-review/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsSafeMethod(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		assert.True(t, IsSafeMethod(m), m)
	}
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		assert.False(t, IsSafeMethod(m), m)
	}
}

func TestOwnerOrReadOnly(t *testing.T) {
	owner := &utils.Principal{UserID: uuid.New(), Username: "owner"}
	other := &utils.Principal{UserID: uuid.New(), Username: "other", IsStaff: true}

	assert.True(t, OwnerOrReadOnly(http.MethodGet, nil, owner.UserID))
	assert.True(t, OwnerOrReadOnly(http.MethodPut, owner, owner.UserID))
	assert.False(t, OwnerOrReadOnly(http.MethodDelete, other, owner.UserID), "staff is not an owner")
	assert.False(t, OwnerOrReadOnly(http.MethodPatch, nil, owner.UserID))
}

func TestAdminOrReadOnly(t *testing.T) {
	staff := &utils.Principal{UserID: uuid.New(), IsStaff: true}
	regular := &utils.Principal{UserID: uuid.New()}

	assert.True(t, AdminOrReadOnly(http.MethodGet, nil))
	assert.True(t, AdminOrReadOnly(http.MethodPost, staff))
	assert.False(t, AdminOrReadOnly(http.MethodPost, regular))
	assert.False(t, AdminOrReadOnly(http.MethodDelete, nil))
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, authorize(true, nil))

	err := authorize(false, nil)
	appErr, _ := utils.AsAppError(err)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)

	err = authorize(false, &utils.Principal{UserID: uuid.New()})
	appErr, _ = utils.AsAppError(err)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
}
