package usecase

import (
	"net/http"

	"movie-review/pkg/utils"

	"github.com/google/uuid"
)

// IsSafeMethod reports whether method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// OwnerOrReadOnly allows reads to anyone and writes only to the owner.
func OwnerOrReadOnly(method string, p *utils.Principal, ownerID uuid.UUID) bool {
	if IsSafeMethod(method) {
		return true
	}
	return p.IsAuthenticated() && p.UserID == ownerID
}

// AdminOrReadOnly allows reads to anyone and writes only to staff.
func AdminOrReadOnly(method string, p *utils.Principal) bool {
	if IsSafeMethod(method) {
		return true
	}
	return p.IsAuthenticated() && p.IsStaff
}

// authorize turns a denied policy into 401 for anonymous callers and 403 otherwise.
func authorize(allowed bool, p *utils.Principal) error {
	if allowed {
		return nil
	}
	if !p.IsAuthenticated() {
		return utils.NotAuthenticated()
	}
	return utils.Forbidden()
}
