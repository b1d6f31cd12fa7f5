package service

import (
	"nestly/internal/domain/entity"
	domainerrors "nestly/internal/domain/errors"
)

// AuthorizeOwner checks that the verified identity is the owner of a
// resource before a mutation is allowed. It is a pure comparison with no
// implicit elevation: there is no administrative override and no role
// hierarchy.
//
// Callers must confirm the resource exists before calling this, so a
// missing resource yields "not found" rather than an ownership mismatch.
func AuthorizeOwner(identity *entity.IdentityClaim, ownerID int64) error {
	if identity == nil {
		return domainerrors.ErrForbidden.WrapMessage("no verified identity on request")
	}
	if identity.UserID != ownerID {
		return domainerrors.ErrForbidden.WrapMessage("resource is owned by another user")
	}

	return nil
}
