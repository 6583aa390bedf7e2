package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// userFromRequest returns the authenticated user placed in the context by the
// auth middleware.
func userFromRequest(r *http.Request) (*domain.User, error) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// pathID parses the named path parameter as a 24-hex-character identifier.
func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	return domain.ParseID(chi.URLParam(r, name))
}

// ownerAndPathID is a composite helper that extracts both the owner and the
// path id. It writes an error response if either extraction fails.
func ownerAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	errs *ErrorResponder,
) (primitive.ObjectID, primitive.ObjectID, bool) {
	user, err := userFromRequest(r)
	if err != nil {
		errs.HandleError(w, r, err)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	id, err := pathID(r, "id")
	if err != nil {
		errs.HandleError(w, r, err)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	return user.ID, id, true
}
