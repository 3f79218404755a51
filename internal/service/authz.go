package service

import "github.com/sheepbooru/catalog/internal/model"

// canModify is the single ownership predicate shared by every mutating
// operation on owned resources: the requester must be the owner or an
// admin.
func canModify(requester *model.User, ownerID string) bool {
	if requester == nil {
		return false
	}
	return requester.ID == ownerID || requester.IsAdmin
}
